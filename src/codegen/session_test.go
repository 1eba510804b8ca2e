package codegen

import (
	"bytes"
	"strings"
	"testing"

	"minicc/src/emitwriter"
)

func newTestSession() (*Session, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewSession(emitwriter.New(&buf)), &buf
}

// TestScopeBalance exercises the "scope balance" property (SPEC_FULL.md
// §10.1): declaring locals increases stack depth by 8 each, and closing
// the scope restores it exactly.
func TestScopeBalance(t *testing.T) {
	s, _ := newTestSession()
	s.stackDepth = 8 // as if inside a function body

	sc := s.OpenScope()
	s.DeclareLocal("a", Int)
	s.DeclareLocal("b", Int)
	if s.StackDepth() != 24 {
		t.Fatalf("got stack depth %d, want 24", s.StackDepth())
	}
	s.CloseScope(sc)
	if s.StackDepth() != 8 {
		t.Fatalf("got stack depth %d after CloseScope, want 8", s.StackDepth())
	}
	if _, ok := s.Lookup("a"); ok {
		t.Fatal("a should not be visible after CloseScope")
	}
}

// TestRegisterBookkeepingAfterDrop checks that a dropped temporary no
// longer occupies any register slot (SPEC_FULL.md §10.4).
func TestRegisterBookkeepingAfterDrop(t *testing.T) {
	s, _ := newTestSession()
	v := s.NumberLiteral(7)
	r, err := s.load(v, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Unlock(r)
	s.drop(v)
	if _, ok := s.searchReg(v); ok {
		t.Fatal("dropped temporary still occupies a register")
	}
}

// TestCallAlignmentPadding checks the "(stack_depth + 8) % 16 == 0"
// invariant before a call (SPEC_FULL.md §10.5) by forcing a misaligned
// stack depth going in.
func TestCallAlignmentPadding(t *testing.T) {
	s, buf := newTestSession()
	s.stackDepth = 8
	s.DeclareLocal("a", Int) // stackDepth now 16

	fun := &Value{Type: Function, Ident: "g", ReturnType: Int}
	if err := s.DeclareGlobal("g", fun); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Call(fun, nil); err != nil {
		t.Fatal(err)
	}

	if rem := (s.StackDepth() + 8) % 16; rem != 0 {
		t.Fatalf("stack depth %d not 16-aligned before call: (%d+8) mod 16 = %d", s.StackDepth(), s.StackDepth(), rem)
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "call g") {
		t.Fatalf("missing call g:\n%s", buf.String())
	}
}

// TestStringLiteralRoundTrip checks a string literal appears verbatim
// inside exactly one .string directive (SPEC_FULL.md §10.6).
func TestStringLiteralRoundTrip(t *testing.T) {
	s, buf := newTestSession()
	s.BeginModule()
	if _, err := s.StringLiteral(`hi`); err != nil {
		t.Fatal(err)
	}
	s.EndModule()
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Count(out, `.string "hi"`) != 1 {
		t.Fatalf("expected exactly one .string \"hi\" entry:\n%s", out)
	}
}
