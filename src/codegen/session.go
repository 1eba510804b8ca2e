package codegen

import (
	"fmt"

	"minicc/src/emitwriter"
	"minicc/src/labels"
	"minicc/src/regfile"
	"minicc/src/symtab"
)

// infiniteCopies is the sentinel count returned by copies for constants and
// globals, which are always reachable through means other than a register
// or stack slot (an immediate encoding, or a symbol reference) and so are
// never worth spilling.
const infiniteCopies = 1 << 30

// stringEntry is one accumulated string-literal awaiting emission in the
// .data section.
type stringEntry struct {
	label string
	raw   string
}

// Scope is the restore point captured at block entry: the symbol table
// position and the stack depth to roll back to on exit.
type Scope struct {
	mark  symtab.Mark[*Value]
	depth int
}

// Session is the compilation session's process-global state (SPEC_FULL.md
// §5), threaded explicitly through the parser rather than held in package
// variables: the register file, stack depth, symbol table, label
// allocator, pending string table and output writer.
type Session struct {
	out  *emitwriter.Writer
	lbl  *labels.Allocator
	syms *symtab.Table[*Value]
	regs *regfile.File[*Value]

	// stackDepth is the running count of bytes reserved below the
	// function entry point, starting at 8 inside a function body to
	// account for the callee-saved push of %rbx (SPEC_FULL.md §3).
	stackDepth int

	strings []stringEntry
}

// NewSession returns a Session ready to compile a program, writing
// assembly to out.
func NewSession(out *emitwriter.Writer) *Session {
	return &Session{
		out:  out,
		lbl:  labels.NewAllocator(),
		syms: symtab.New[*Value](),
		regs: regfile.New[*Value](),
	}
}

// Lookup searches the symbol table for ident.
func (s *Session) Lookup(ident string) (*Value, bool) {
	return s.syms.Lookup(ident)
}

// DeclareGlobal adds a top-level declaration. Redefinition of an existing
// top-level name is a semantic error (SPEC_FULL.md §9); this is the one
// place redefinition is checked, because locals are allowed to shadow.
func (s *Session) DeclareGlobal(ident string, v *Value) error {
	if _, ok := s.syms.Lookup(ident); ok {
		return fmt.Errorf("already defined: %s", ident)
	}
	s.syms.Declare(ident, v)
	return nil
}

// NewLabel mints a fresh "l<id>" label.
func (s *Session) NewLabel() string { return s.lbl.New() }

// PlaceLabel emits a bare label line.
func (s *Session) PlaceLabel(name string) { s.out.Label(name) }

// Jump emits an unconditional jump to label.
func (s *Session) Jump(label string) { s.out.Mnemonic1("jmp", label) }

// ----------------------------------------------------------------
// ----- Register/stack model (SPEC_FULL.md §4.3)                 -
// ----------------------------------------------------------------

// searchReg returns the register currently holding v, if any.
func (s *Session) searchReg(v *Value) (regfile.Reg, bool) {
	return s.regs.Search(v)
}

// copies returns the number of independently reachable copies of v.
// Constants and globals are always reachable some other way and report
// the infiniteCopies sentinel.
func (s *Session) copies(v *Value) int {
	if v.Constant || v.Ident != "" {
		return infiniteCopies
	}
	n := 0
	if v.StackPos > 0 {
		n++
	}
	for r := regfile.Reg(0); r < regfile.NumRegs; r++ {
		if s.regs.Get(r) == v {
			n++
		}
	}
	return n
}

// drop releases every register slot holding v, provided v is a pure
// temporary (no stack slot, no identifier). Locals and globals are never
// dropped: their storage outlives the expression that produced them.
func (s *Session) drop(v *Value) {
	if v == nil || v.StackPos > 0 || v.Ident != "" {
		return
	}
	for r := regfile.Reg(0); r < regfile.NumRegs; r++ {
		if s.regs.Get(r) == v {
			s.regs.Free(r)
		}
	}
}

// push spills the value in r to a freshly allocated 8-byte stack slot and
// vacates r. The push instruction (and the stack bookkeeping) is only
// actually needed when r holds the sole reachable copy of its value: if
// another copy already exists (another register, or a stack slot), the
// slot can simply be forgotten.
func (s *Session) push(r regfile.Reg) {
	v := s.regs.Get(r)
	if s.copies(v) == 1 {
		s.out.Mnemonic1("push", r.String())
		s.stackDepth += 8
		v.StackPos = s.stackDepth
	}
	s.regs.Free(r)
}

// allocRegister returns an empty slot if one exists; otherwise it spills
// the highest-indexed unlocked slot and returns it. It errors only when
// every slot is locked, which SPEC_FULL.md §9 calls out as the
// register-pressure deadlock case.
func (s *Session) allocRegister() (regfile.Reg, error) {
	if r, ok := s.regs.FirstFree(); ok {
		return r, nil
	}
	if r, ok := s.regs.SpillCandidate(); ok {
		s.push(r)
		return r, nil
	}
	return 0, fmt.Errorf("unable to allocate a register")
}

// asmOperand chooses the cheapest textual operand for v: a register if
// held, else an immediate if constant, else a stack offset if spilled,
// else the bare global symbol.
func (s *Session) asmOperand(v *Value) (string, error) {
	if v.Type == Void || v.Type == Function {
		return "", fmt.Errorf("non-numeric type for expression")
	}
	if r, ok := s.searchReg(v); ok {
		return r.String(), nil
	}
	if v.Constant {
		return fmt.Sprintf("$%d", v.ConstValue), nil
	}
	if v.StackPos > 0 {
		return fmt.Sprintf("%d(%%rsp)", s.stackDepth-v.StackPos), nil
	}
	if v.Ident == "" {
		return "", fmt.Errorf("value has no storage")
	}
	return v.Ident, nil
}

// load ensures v resides in a register, returning it. If want is non-nil,
// v is loaded into that specific register; otherwise any register holding
// v is reused, or a fresh one is allocated. The returned register is
// locked: callers must Unlock it once the operator they're emitting for
// has finished referencing it (SPEC_FULL.md §4.3, Design Notes "Register
// locking").
func (s *Session) load(v *Value, want *regfile.Reg) (regfile.Reg, error) {
	if v.Type == Void || v.Type == Function {
		return 0, fmt.Errorf("non-numeric type for expression")
	}

	var r regfile.Reg
	if want == nil {
		if found, ok := s.searchReg(v); ok {
			s.regs.Lock(found)
			return found, nil
		}
		var err error
		r, err = s.allocRegister()
		if err != nil {
			return 0, err
		}
	} else {
		r = *want
	}

	if s.regs.Get(r) == v {
		s.regs.Lock(r)
		return r, nil
	}

	if s.regs.Occupied(r) {
		s.push(r)
	}

	operand, err := s.asmOperand(v)
	if err != nil {
		return 0, err
	}
	s.out.Mnemonic2("mov", operand, r.String())
	s.regs.Bind(r, v)
	s.regs.Lock(r)
	return r, nil
}

// Unlock releases the lock a load call placed on r.
func (s *Session) Unlock(r regfile.Reg) { s.regs.Unlock(r) }

// Discard releases v's register slot(s) without evaluating anything
// further: the parser's equivalent of the original core's bare drop(v)
// call for an expression statement's discarded result.
func (s *Session) Discard(v *Value) { s.drop(v) }

// ----------------------------------------------------------------
// ----- Scope and stack-frame bookkeeping (SPEC_FULL.md §4.6)    -
// ----------------------------------------------------------------

// StackDepth returns the current stack depth in bytes.
func (s *Session) StackDepth() int { return s.stackDepth }

// OpenScope captures the current symbol table position and stack depth as
// a restore point.
func (s *Session) OpenScope() Scope {
	return Scope{mark: s.syms.Mark(), depth: s.stackDepth}
}

// CloseScope restores the symbol table to sc's mark (discarding every
// declaration made since) and then runs EndBlock to pop the scope's stack
// reservation.
func (s *Session) CloseScope(sc Scope) {
	s.syms.Restore(sc.mark)
	s.EndBlock(sc.depth)
}

// EndBlock pops the stack frame delta accumulated since oldDepth, emitting
// an `add` to restore %rsp if any was reserved, invalidates the StackPos
// of every symbol table entry whose slot address lies beyond the restored
// depth (it no longer has backing storage), and clears all register
// bindings. It does not touch the symbol table's declarations themselves
// -- that's CloseScope's job -- because conditions in if/while/for can
// reserve stack space (through spills) without declaring any locals.
func (s *Session) EndBlock(oldDepth int) {
	if s.stackDepth > oldDepth {
		s.out.Mnemonic2("add", fmt.Sprintf("$%d", s.stackDepth-oldDepth), "%rsp")
		s.stackDepth = oldDepth
	}
	s.syms.Each(func(v *Value) {
		if v.StackPos > s.stackDepth {
			v.StackPos = 0
		}
	})
	s.regs.Reset()
}

// BranchIfZero loads cond, ORs it with itself to set flags, and jumps to
// label if it is zero, then drops cond. This is the shared shape behind
// if/while/for's condition test (SPEC_FULL.md §4.6).
func (s *Session) BranchIfZero(cond *Value, label string) error {
	r, err := s.load(cond, nil)
	if err != nil {
		return err
	}
	s.out.Mnemonic2("or", r.String(), r.String())
	s.out.Mnemonic1("jz", label)
	// Note: the lock load placed on r is deliberately left in place here,
	// matching original_source/main.c's if/while/for condition test: only
	// the unary/binary/assignment operator sites explicitly unlock after
	// their own emission (see Neg/BinOp/Assign below). EndBlock's register
	// reset still reclaims the slot's occupancy; only its eligibility as a
	// future spill victim is affected.
	s.drop(cond)
	return nil
}
