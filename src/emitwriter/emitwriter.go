// Package emitwriter buffers and formats the AT&T-syntax assembly text this
// compiler emits.
//
// It is adapted from the teacher's util.Writer (src/util/io.go): the same
// "small formatting helpers over a buffered writer, flushed once at the
// end" shape, but driven synchronously. The teacher's Writer exists to let
// several worker goroutines append to one output stream without
// interleaving their writes, funnelling everything through a channel to a
// single listener goroutine; this compiler's single-pass, single-threaded
// parser (see SPEC_FULL.md §5) has exactly one writer and no concurrent
// producers, so the channel/goroutine plumbing is dropped in favour of a
// plain *bufio.Writer, while the instruction-formatting helpers and the
// "flush once, report the first error" discipline are kept.
package emitwriter

import (
	"bufio"
	"fmt"
	"io"
)

// Writer accumulates assembly text and flushes it to the underlying stream.
type Writer struct {
	w   *bufio.Writer
	err error // first write error encountered, sticky.
}

// New wraps dst in a buffered Writer.
func New(dst io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(dst)}
}

// set records err if it is the first error seen.
func (w *Writer) set(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Directive writes an assembler directive line, e.g. ".text" or ".global foo".
func (w *Writer) Directive(format string, args ...interface{}) {
	_, err := fmt.Fprintf(w.w, "\t%s\n", fmt.Sprintf(format, args...))
	w.set(err)
}

// Label writes a bare label line: "name:".
func (w *Writer) Label(name string) {
	_, err := fmt.Fprintf(w.w, "%s:\n", name)
	w.set(err)
}

// Mnemonic0 writes a zero-operand instruction, e.g. "ret".
func (w *Writer) Mnemonic0(op string) {
	_, err := fmt.Fprintf(w.w, "\t%s\n", op)
	w.set(err)
}

// Mnemonic1 writes a one-operand instruction, e.g. "push %rbx".
func (w *Writer) Mnemonic1(op, operand string) {
	_, err := fmt.Fprintf(w.w, "\t%s %s\n", op, operand)
	w.set(err)
}

// Mnemonic2 writes a two-operand instruction in AT&T order: "op src, dst".
func (w *Writer) Mnemonic2(op, src, dst string) {
	_, err := fmt.Fprintf(w.w, "\t%s %s, %s\n", op, src, dst)
	w.set(err)
}

// StringDirective writes a string-table entry: `l<id>: .string "<bytes>"`.
func (w *Writer) StringDirective(label, raw string) {
	_, err := fmt.Fprintf(w.w, "%s: .string \"%s\"\n", label, raw)
	w.set(err)
}

// Flush empties the buffer to the underlying writer and returns the first
// error encountered across the Writer's lifetime, if any.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		w.set(err)
	}
	return w.err
}
