package main

import (
	"fmt"
	"io"
	"os"

	"minicc/src/cerr"
	"minicc/src/cliopts"
	"minicc/src/codegen"
	"minicc/src/emitwriter"
	"minicc/src/lexer"
	"minicc/src/parser"
)

// run reads opt.Src, compiles it, and writes the resulting assembly to
// opt.Out (or stdout), returning the first error encountered: a
// *cerr.Error for I/O, lexical, syntax and parser-detected semantic
// failures, or the plain error a codegen.Session method reported.
func run(opt cliopts.Options) error {
	raw, err := os.ReadFile(opt.Src)
	if err != nil {
		return cerr.IOf("unable to open %s: %s", opt.Src, err)
	}

	var dst io.Writer = os.Stdout
	if opt.Out != "" {
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return cerr.IOf("unable to open %s: %s", opt.Out, err)
		}
		defer f.Close()
		dst = f
	}

	out := emitwriter.New(dst)
	sess := codegen.NewSession(out)

	lx := lexer.New(string(raw))
	p, err := parser.New(lx, sess)
	if err != nil {
		return err
	}
	if err := p.Parse(); err != nil {
		return err
	}

	if err := sess.Flush(); err != nil {
		return cerr.IOf("write error: %s", err)
	}
	return nil
}

func main() {
	opt, ok := cliopts.Parse(os.Args[1:])
	if !ok {
		cliopts.Usage(os.Stdout)
		os.Exit(0)
	}
	if opt.Help {
		cliopts.Usage(os.Stdout)
		os.Exit(0)
	}
	if opt.Vers {
		fmt.Println(cliopts.Version())
		os.Exit(0)
	}

	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
