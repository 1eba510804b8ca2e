package codegen

import (
	"fmt"

	"minicc/src/regfile"
)

// DeclareLocal reserves one 8-byte stack slot for a new local variable,
// emits the `sub $8, %rsp` that backs it, and adds it to the symbol table
// (SPEC_FULL.md §4.6). Local declarations are always allowed to shadow an
// outer declaration of the same name; only top-level redefinition is an
// error (see DeclareGlobal).
func (s *Session) DeclareLocal(ident string, typ Type) *Value {
	s.out.Mnemonic2("sub", "$8", "%rsp")
	s.stackDepth += 8
	v := &Value{Type: typ, StackPos: s.stackDepth}
	s.syms.Declare(ident, v)
	return v
}

// StoreInit evaluates the already-produced init Value into v's stack slot:
// `int a = expr;`. init is loaded into a register and stored, then
// dropped.
func (s *Session) StoreInit(v *Value, init *Value) error {
	r, err := s.load(init, nil)
	if err != nil {
		return err
	}
	s.out.Mnemonic2("mov", r.String(), fmt.Sprintf("%d(%%rsp)", s.stackDepth-v.StackPos))
	s.Unlock(r)
	s.drop(init)
	return nil
}

// Return emits a function return: the result is loaded into rax, the
// frame's stack reservation beyond the callee-saved push is popped if
// any was made, %rbx is restored and control returns to the caller
// (SPEC_FULL.md §4.6). stackDepth itself is left unchanged by this call,
// matching the original core -- a return may appear mid-block, and the
// enclosing block's own end-of-scope bookkeeping still runs afterward.
func (s *Session) Return(v *Value) error {
	rax := regfile.RAX
	if _, err := s.load(v, &rax); err != nil {
		return err
	}
	if s.stackDepth > 8 {
		s.out.Mnemonic2("add", fmt.Sprintf("$%d", s.stackDepth-8), "%rsp")
	}
	s.out.Mnemonic1("pop", "%rbx")
	s.out.Mnemonic0("ret")
	return nil
}

// BeginFunction emits a function's prologue: `.global ident`, its label,
// and the callee-saved push of %rbx, and resets the stack depth to 8 to
// account for that push (SPEC_FULL.md §4.7).
func (s *Session) BeginFunction(ident string) {
	s.out.Directive(".global %s", ident)
	s.out.Label(ident)
	s.out.Mnemonic1("push", "%rbx")
	s.stackDepth = 8
}

// BindParam clones a declared parameter into a live local bound to its
// call-convention register (position i maps to rdi-i, the same mapping
// used at the call site, SPEC_FULL.md §4.5/§4.7) and declares it in the
// symbol table. Parameters therefore start life in registers: register
// pressure in the body can spill them like any other temporary.
func (s *Session) BindParam(ident string, typ Type, i int) *Value {
	reg := regfile.RDI - regfile.Reg(i)
	v := &Value{Type: typ, Ident: ident}
	s.regs.Bind(reg, v)
	s.syms.Declare(ident, v)
	return v
}

// EndFunction emits a function's epilogue: restore %rbx and return. Used
// for the implicit fall-through return some bodies rely on -- e.g. a void
// function whose last statement isn't `return;` -- since the language has
// no explicit "falls off the end" statement.
func (s *Session) EndFunction() {
	s.out.Mnemonic1("pop", "%rbx")
	s.out.Mnemonic0("ret")
}
