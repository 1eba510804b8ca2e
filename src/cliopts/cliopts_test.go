package cliopts

import "testing"

func TestParseSourceOnly(t *testing.T) {
	opt, ok := Parse([]string{"prog.c"})
	if !ok {
		t.Fatal("expected ok")
	}
	if opt.Src != "prog.c" || opt.Out != "" || opt.Help || opt.Vers {
		t.Fatalf("got %+v", opt)
	}
}

func TestParseOutputFlag(t *testing.T) {
	opt, ok := Parse([]string{"-o", "out.s", "prog.c"})
	if !ok {
		t.Fatal("expected ok")
	}
	if opt.Out != "out.s" || opt.Src != "prog.c" {
		t.Fatalf("got %+v", opt)
	}
}

func TestParseHelpAndVersion(t *testing.T) {
	if opt, ok := Parse([]string{"-h"}); !ok || !opt.Help {
		t.Fatalf("got (%+v, %v), want Help=true", opt, ok)
	}
	if opt, ok := Parse([]string{"--version"}); !ok || !opt.Vers {
		t.Fatalf("got (%+v, %v), want Vers=true", opt, ok)
	}
}

func TestParseRejectsWrongArgCount(t *testing.T) {
	if _, ok := Parse(nil); ok {
		t.Fatal("expected zero positional arguments to be rejected")
	}
	if _, ok := Parse([]string{"a.c", "b.c"}); ok {
		t.Fatal("expected two positional arguments to be rejected")
	}
}

func TestParseRejectsDanglingOutputFlag(t *testing.T) {
	if _, ok := Parse([]string{"-o"}); ok {
		t.Fatal("expected a dangling -o flag to be rejected")
	}
}
