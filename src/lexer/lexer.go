// Package lexer implements the character source and lexer of SPEC_FULL.md
// §4.1: a restartable byte stream with one-byte lookahead, and a lexer
// that converts it into a single current Token at a time.
//
// The teacher's own lexer (src/frontend/lexer.go) is a Rob Pike style
// concurrent state machine that emits tokens over a channel to a
// goyacc-generated parser running in another goroutine. That design earns
// its keep there because the teacher's parser is generated code with its
// own control flow the lexer can't be called into directly. This
// compiler's parser is hand-written and pulls exactly one token at a time
// with a single byte of lookahead (SPEC_FULL.md §4.1), which is the same
// shape as a plain pull-based Lexer.Next() method -- no goroutine or
// channel buys anything here, so this Lexer is a direct, synchronous
// port of the original source's lex()/parse_alnum()/parse_string()
// functions, written in the teacher's comment and naming idiom.
package lexer

import (
	"bufio"
	"io"

	"minicc/src/cerr"
	"minicc/src/token"
)

// eof is the sentinel lookahead byte meaning "no more input", matching the
// original core's use of '\0' for EOF (fgetc actually returns a distinct
// negative EOF value in C; this Lexer instead tracks EOF with a separate
// boolean so byte 0 in the input isn't confused with end of stream).
const eof = 0

// Lexer scans a byte stream for tokens, keeping one byte of lookahead
// between calls, the way the original core keeps a single global `look`
// character.
type Lexer struct {
	r        *bufio.Reader
	look     byte
	atEOF    bool
	line     int
	col      int
	lookLine int
	lookCol  int
}

// New returns a Lexer reading from src.
func New(src string) *Lexer {
	l := &Lexer{
		r:    bufio.NewReader(stringReader(src)),
		line: 1,
		col:  0,
	}
	l.advance()
	return l
}

// stringReader avoids importing strings solely for NewReader, keeping this
// file's import list to what the lexer itself needs.
func stringReader(s string) io.Reader {
	return &byteReader{s: s}
}

type byteReader struct {
	s string
	i int
}

func (b *byteReader) Read(p []byte) (int, error) {
	if b.i >= len(b.s) {
		return 0, io.EOF
	}
	n := copy(p, b.s[b.i:])
	b.i += n
	return n, nil
}

// advance reads the next byte of lookahead, tracking line/column for
// diagnostics.
func (l *Lexer) advance() {
	if l.look == '\n' {
		l.line++
		l.col = 0
	}
	b, err := l.r.ReadByte()
	if err != nil {
		l.look = eof
		l.atEOF = true
		return
	}
	l.look = b
	l.col++
	l.lookLine = l.line
	l.lookCol = l.col
}

// pos returns the position of the lookahead byte about to be consumed,
// used to stamp the token about to be produced.
func (l *Lexer) pos() token.Pos {
	return token.Pos{Line: l.lookLine, Col: l.lookCol}
}

func isAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlnum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// parseAlnum scans a maximal run of alphanumerics/underscore, mirroring
// the original source's parse_alnum().
func (l *Lexer) parseAlnum() string {
	buf := make([]byte, 0, 8)
	for !l.atEOF && isAlnum(l.look) {
		buf = append(buf, l.look)
		l.advance()
	}
	return string(buf)
}

// parseString scans raw bytes up to (and consuming) the closing quote, with
// no escape processing: the lexer passes escapes through verbatim for the
// assembler's `.string` directive to interpret (SPEC_FULL.md §11).
func (l *Lexer) parseString() (string, error) {
	buf := make([]byte, 0, 8)
	for l.look != '"' {
		if l.atEOF {
			return "", cerr.Syntaxf(l.pos().String(), "unterminated string literal")
		}
		buf = append(buf, l.look)
		l.advance()
	}
	l.advance() // consume closing quote.
	return string(buf), nil
}

// Next scans and returns the next token from the stream.
func (l *Lexer) Next() (token.Token, error) {
	for !l.atEOF && isSpace(l.look) {
		l.advance()
	}

	pos := l.pos()

	switch {
	case l.atEOF:
		return token.Token{Kind: token.EOF, Pos: pos}, nil

	case isAlpha(l.look):
		word := l.parseAlnum()
		kind := token.Lookup(word)
		if kind == token.IDENTIFIER {
			return token.Token{Kind: kind, Str: word, Pos: pos}, nil
		}
		return token.Token{Kind: kind, Pos: pos}, nil

	case isDigit(l.look):
		var n uint64
		for !l.atEOF && isDigit(l.look) {
			n = n*10 + uint64(l.look-'0')
			l.advance()
		}
		return token.Token{Kind: token.NUMBER, Num: n, Pos: pos}, nil

	case l.look == '"':
		l.advance()
		s, err := l.parseString()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.STRING, Str: s, Pos: pos}, nil

	case l.look == '.':
		l.advance()
		if l.look == '.' {
			l.advance()
			return token.Token{Kind: token.ELLIPSIS, Pos: pos}, nil
		}
		return token.Token{Kind: '.', Pos: pos}, nil

	default:
		k := token.Kind(l.look)
		l.advance()
		return token.Token{Kind: k, Pos: pos}, nil
	}
}
