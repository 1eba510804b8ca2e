package regfile

import "testing"

func TestFirstFreePrefersLowIndex(t *testing.T) {
	f := New[*int]()
	v := new(int)
	f.Bind(RAX, v)
	r, ok := f.FirstFree()
	if !ok || r != RBX {
		t.Fatalf("got (%v, %v), want (RBX, true)", r, ok)
	}
}

func TestSpillCandidateProtectsLockedAndLowRegisters(t *testing.T) {
	f := New[*int]()
	a, b, c := new(int), new(int), new(int)
	f.Bind(RAX, a)
	f.Bind(RBX, b)
	f.Bind(RDI, c)
	f.Lock(RDI)

	r, ok := f.SpillCandidate()
	if !ok || r != RSI {
		t.Fatalf("got (%v, %v), want (RSI, true): RDI is locked, RSI is the next highest-indexed unlocked slot", r, ok)
	}
}

func TestSearchFindsBoundValue(t *testing.T) {
	f := New[*int]()
	v := new(int)
	f.Bind(RCX, v)
	r, ok := f.Search(v)
	if !ok || r != RCX {
		t.Fatalf("got (%v, %v), want (RCX, true)", r, ok)
	}
	other := new(int)
	if _, ok := f.Search(other); ok {
		t.Fatal("search found a value that was never bound")
	}
}

func TestResetClearsSlotsButNotLocks(t *testing.T) {
	f := New[*int]()
	v := new(int)
	f.Bind(RAX, v)
	f.Lock(RAX)
	f.Reset()

	if f.Occupied(RAX) {
		t.Fatal("Reset left a slot occupied")
	}
	if !f.Locked(RAX) {
		t.Fatal("Reset should not clear locks")
	}
}
