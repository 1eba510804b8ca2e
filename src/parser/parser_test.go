package parser

import (
	"bytes"
	"strings"
	"testing"

	"minicc/src/codegen"
	"minicc/src/emitwriter"
	"minicc/src/lexer"
)

// compile runs the full pipeline over src and returns the emitted assembly
// text, the way a downstream assembler would receive it on stdout.
func compile(t *testing.T, src string) string {
	t.Helper()
	var buf bytes.Buffer
	out := emitwriter.New(&buf)
	sess := codegen.NewSession(out)
	p, err := New(lexer.New(src), sess)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if err := sess.Flush(); err != nil {
		t.Fatalf("Flush: %s", err)
	}
	return buf.String()
}

// TestReturnConstant covers end-to-end scenario #1: a constant return.
func TestReturnConstant(t *testing.T) {
	asm := compile(t, `int main(){ return 42; }`)
	if !strings.Contains(asm, "\t.global main") {
		t.Errorf("missing .global main:\n%s", asm)
	}
	if !strings.Contains(asm, "mov $42, %rax") {
		t.Errorf("missing mov $42, %%rax:\n%s", asm)
	}
	if !strings.Contains(asm, "\tret") {
		t.Errorf("missing ret:\n%s", asm)
	}
}

// TestLocalAssignment covers end-to-end scenario #2: a local variable
// declared, assigned, and used in an expression.
func TestLocalAssignment(t *testing.T) {
	asm := compile(t, `int main(){ int a; a = 3; return a + 4; }`)
	if !strings.Contains(asm, "sub $8, %rsp") {
		t.Errorf("missing local slot reservation:\n%s", asm)
	}
	if !strings.Contains(asm, "add $4,") && !strings.Contains(asm, "add $4, ") {
		t.Errorf("missing add $4:\n%s", asm)
	}
}

// TestForLoop covers end-to-end scenario #3: a for loop summing 0..4.
func TestForLoop(t *testing.T) {
	asm := compile(t, `int main(){ int i; int s; s = 0; for (i = 0; i < 5; i = i + 1) s = s + i; return s; }`)
	if strings.Count(asm, "cmp") == 0 {
		t.Errorf("expected a cmp instruction for the loop condition:\n%s", asm)
	}
	if strings.Count(asm, "jz ") == 0 {
		t.Errorf("expected a conditional jump:\n%s", asm)
	}
}

// TestVariadicCall covers end-to-end scenario #4: a variadic prototype
// called with a string literal argument.
func TestVariadicCall(t *testing.T) {
	asm := compile(t, "int printf(char *fmt, ..);\nint main(){ printf(\"hi\"); return 0; }")
	if !strings.Contains(asm, "call printf") {
		t.Errorf("missing call printf:\n%s", asm)
	}
	if !strings.Contains(asm, "\t.data") {
		t.Errorf("missing .data section:\n%s", asm)
	}
	if !strings.Contains(asm, `.string "hi"`) {
		t.Errorf("missing string literal entry:\n%s", asm)
	}
}

// TestFunctionCallArgOrder covers end-to-end scenario #5: a two-argument
// call, checking the non-standard rdi/rsi argument mapping.
func TestFunctionCallArgOrder(t *testing.T) {
	asm := compile(t, `int f(int a, int b){ return a * b + 1; } int main(){ return f(6, 7); }`)
	if !strings.Contains(asm, "mov $6, %rdi") {
		t.Errorf("missing first argument load into %%rdi:\n%s", asm)
	}
	if !strings.Contains(asm, "mov $7, %rsi") {
		t.Errorf("missing second argument load into %%rsi:\n%s", asm)
	}
	if !strings.Contains(asm, "call f") {
		t.Errorf("missing call f:\n%s", asm)
	}
}

// TestWhileLoop covers end-to-end scenario #6: a decrementing while loop.
func TestWhileLoop(t *testing.T) {
	asm := compile(t, `int main(){ int i; i = 10; while (i > 0) i = i - 1; return i; }`)
	if strings.Count(asm, "setg") == 0 {
		t.Errorf("expected setg for the '>' comparison:\n%s", asm)
	}
	if strings.Count(asm, "jmp l") == 0 {
		t.Errorf("expected a jump back to the loop test:\n%s", asm)
	}
}

// TestModuleShape checks the output begins with .text and ends with .data,
// per SPEC_FULL.md §4.8.
func TestModuleShape(t *testing.T) {
	asm := compile(t, `int main(){ return 0; }`)
	if !strings.HasPrefix(asm, "\t.text\n") {
		t.Fatalf("expected output to begin with .text, got:\n%s", asm)
	}
	if i := strings.Index(asm, "\t.data\n"); i < 0 {
		t.Fatalf("expected a .data section:\n%s", asm)
	}
}

// TestUndefinedIdentifier checks a semantic error is reported for a
// reference to an undeclared name.
func TestUndefinedIdentifier(t *testing.T) {
	var buf bytes.Buffer
	sess := codegen.NewSession(emitwriter.New(&buf))
	p, err := New(lexer.New(`int main(){ return x; }`), sess)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(); err == nil {
		t.Fatal("expected an error for an undefined identifier")
	}
}

// TestRedefinition checks top-level redefinition of an existing name is
// rejected.
func TestRedefinition(t *testing.T) {
	var buf bytes.Buffer
	sess := codegen.NewSession(emitwriter.New(&buf))
	p, err := New(lexer.New(`int a(){ return 0; } int a(){ return 1; }`), sess)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(); err == nil {
		t.Fatal("expected an error for redefining a")
	}
}

// TestTooManyArguments checks a non-variadic call rejects excess arguments.
func TestTooManyArguments(t *testing.T) {
	var buf bytes.Buffer
	sess := codegen.NewSession(emitwriter.New(&buf))
	p, err := New(lexer.New(`int f(int a){ return a; } int main(){ return f(1, 2); }`), sess)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(); err == nil {
		t.Fatal("expected an error for too many arguments")
	}
}

// TestCallAlignment checks the 16-byte stack alignment padding is inserted
// before a call whenever it would otherwise be unaligned.
func TestCallAlignment(t *testing.T) {
	asm := compile(t, `int g(){ return 0; } int main(){ int a; int b; int c; return g(); }`)
	if !strings.Contains(asm, "call g") {
		t.Fatalf("missing call g:\n%s", asm)
	}
	// Three locals put main's depth at 32; (32+8) mod 16 = 8, so 8 bytes of
	// padding must precede the call.
	if !strings.Contains(asm, "\tsub $8, %rsp\n\tcall g") {
		t.Fatalf("missing alignment padding before call g:\n%s", asm)
	}
}
