// Package regfile models the fixed six-slot x86-64 general-purpose
// register file this compiler allocates out of: occupancy, per-slot
// locking, and the two traversal orders the allocator needs (low-to-high
// to prefer rax, high-to-low to pick a spill victim).
//
// This is a concrete specialization of the teacher's backend/regfile
// interface (RegisterFile), which was built to describe much larger,
// architecture-parameterized integer/float register files (ARM's 31 GPRs,
// RISC-V's 32) addressed by index with a notion of "next available temp
// register". That interface has no notion of locking, because the
// teacher's backend allocates registers once per SSA value during a global
// liveness pass rather than transiently within one expression. This
// compiler's allocator instead locks and unlocks registers within the
// lifetime of a single operator emission (SPEC_FULL.md §4.3), so File adds
// the lock bit the teacher's interface doesn't need and drops the
// architecture-generic Ki/Kf/GetNextTempExclude surface the teacher's
// multi-backend RegisterFile needs and this compiler, targeting one fixed
// six-register file, does not.
package regfile

// Reg indexes one of the six general-purpose slots, ordered to match the
// source's call-argument mapping: position 0 of a call maps to RDI, and
// the allocator prefers low indices, so RAX (index 0) is the cheapest
// register to hand out and RDI (index 5) the register that carries a
// call's first argument.
type Reg int

const (
	RAX Reg = iota
	RBX
	RCX
	RDX
	RSI
	RDI
	NumRegs
)

var names = [int(NumRegs)]string{"%rax", "%rbx", "%rcx", "%rdx", "%rsi", "%rdi"}
var byteNames = [int(NumRegs)]string{"%al", "%bl", "%cl", "%dl", "%sil", "%dil"}

// String returns the 64-bit AT&T register name, e.g. "%rax".
func (r Reg) String() string { return names[r] }

// Byte returns the 8-bit alias used as the destination of setl/setg,
// e.g. "%al" for RAX.
func (r Reg) Byte() string { return byteNames[r] }

// File is a fixed six-slot register file holding values of type T
// (instantiated with *codegen.Value by this compiler). The zero value of T
// must mean "no value" -- true for the pointer type this compiler uses.
type File[T comparable] struct {
	slot   [NumRegs]T
	locked [NumRegs]bool
}

// New returns an empty, unlocked File.
func New[T comparable]() *File[T] {
	return &File[T]{}
}

// Get returns the value currently bound to r, or the zero value if r is
// empty.
func (f *File[T]) Get(r Reg) T {
	return f.slot[r]
}

// Bind stores v in slot r, overwriting whatever was there.
func (f *File[T]) Bind(r Reg, v T) {
	f.slot[r] = v
}

// Free empties slot r.
func (f *File[T]) Free(r Reg) {
	var zero T
	f.slot[r] = zero
}

// Search returns the register currently holding v, if any.
func (f *File[T]) Search(v T) (Reg, bool) {
	var zero T
	if v == zero {
		return 0, false
	}
	for i := Reg(0); i < NumRegs; i++ {
		if f.slot[i] == v {
			return i, true
		}
	}
	return 0, false
}

// Occupied reports whether slot r currently holds a value.
func (f *File[T]) Occupied(r Reg) bool {
	var zero T
	return f.slot[r] != zero
}

// Lock marks r so the allocator will not choose it as a spill victim until
// Unlock is called. Locking is scoped to the emission of a single operator
// (SPEC_FULL.md §4.3): callers must unlock on every exit path, including
// error returns, the same way a mutex must always be released.
func (f *File[T]) Lock(r Reg) { f.locked[r] = true }

// Unlock clears the lock set by Lock.
func (f *File[T]) Unlock(r Reg) { f.locked[r] = false }

// Locked reports whether r is currently locked.
func (f *File[T]) Locked(r Reg) bool { return f.locked[r] }

// FirstFree returns the lowest-indexed empty slot, preferring rax, the way
// the allocator's free-slot scan does.
func (f *File[T]) FirstFree() (Reg, bool) {
	for i := Reg(0); i < NumRegs; i++ {
		if !f.Occupied(i) {
			return i, true
		}
	}
	return 0, false
}

// SpillCandidate returns the highest-indexed unlocked slot, protecting the
// low (preferred) registers from eviction when the allocator must spill to
// free a slot.
func (f *File[T]) SpillCandidate() (Reg, bool) {
	for i := NumRegs - 1; i >= 0; i-- {
		if !f.locked[i] {
			return i, true
		}
	}
	return 0, false
}

// Reset empties every slot. Locks are left untouched; callers reset at
// scope boundaries where nothing should still be locked.
func (f *File[T]) Reset() {
	var zero T
	for i := range f.slot {
		f.slot[i] = zero
	}
}
