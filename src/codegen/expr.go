package codegen

import (
	"fmt"

	"minicc/src/regfile"
)

// Neg emits unary minus: load the operand, negate in place, and bind a
// fresh temporary of the operand's type to the same register
// (SPEC_FULL.md §4.4).
func (s *Session) Neg(v *Value) (*Value, error) {
	r, err := s.load(v, nil)
	if err != nil {
		return nil, err
	}
	s.out.Mnemonic1("neg", r.String())
	s.Unlock(r)
	s.drop(v)

	result := &Value{Type: v.Type}
	s.regs.Bind(r, result)
	return result, nil
}

// BinOp emits one of the shared-precedence binary operators
// '+' '-' '*' '<' '>'. lhs is loaded into a register, which becomes the
// result's register; rhs is referenced by its cheapest operand form.
// Comparisons additionally widen the byte result of setl/setg back to 64
// bits with movzx (SPEC_FULL.md §4.4).
func (s *Session) BinOp(op byte, lhs, rhs *Value) (*Value, error) {
	r, err := s.load(lhs, nil)
	if err != nil {
		return nil, err
	}
	rhsOperand, err := s.asmOperand(rhs)
	if err != nil {
		return nil, err
	}

	switch op {
	case '+':
		s.out.Mnemonic2("add", rhsOperand, r.String())
	case '-':
		s.out.Mnemonic2("sub", rhsOperand, r.String())
	case '*':
		s.out.Mnemonic2("imul", rhsOperand, r.String())
	case '<':
		s.out.Mnemonic2("cmp", rhsOperand, r.String())
		s.out.Mnemonic1("setl", r.Byte())
		s.out.Mnemonic2("movzx", r.Byte(), r.String())
	case '>':
		s.out.Mnemonic2("cmp", rhsOperand, r.String())
		s.out.Mnemonic1("setg", r.Byte())
		s.out.Mnemonic2("movzx", r.Byte(), r.String())
	default:
		return nil, fmt.Errorf("unsupported binary operator %q", rune(op))
	}

	s.Unlock(r)
	s.drop(lhs)
	s.drop(rhs)

	result := &Value{Type: lhs.Type}
	s.regs.Bind(r, result)
	return result, nil
}

// Assign emits `lhs = rhs`: rhs is loaded into a register and stored to
// lhs's operand location. The expression's own result is rhs, passed
// through unchanged, so that `a = b = c` chains correctly
// (SPEC_FULL.md §4.4).
func (s *Session) Assign(lhs, rhs *Value) (*Value, error) {
	r, err := s.load(rhs, nil)
	if err != nil {
		return nil, err
	}
	dst, err := s.asmOperand(lhs)
	if err != nil {
		return nil, err
	}
	s.out.Mnemonic2("mov", r.String(), dst)
	s.Unlock(r)
	return rhs, nil
}

// StringLiteral records raw's bytes in the pending string table and emits
// a load of its eventual label address into a fresh register, binding a
// new pointer-typed temporary (SPEC_FULL.md §4.4).
func (s *Session) StringLiteral(raw string) (*Value, error) {
	label := s.NewLabel()
	s.strings = append(s.strings, stringEntry{label: label, raw: raw})

	r, err := s.allocRegister()
	if err != nil {
		return nil, err
	}
	s.out.Mnemonic2("mov", "$"+label, r.String())

	result := &Value{Type: Pointer}
	s.regs.Bind(r, result)
	return result, nil
}

// NumberLiteral returns a constant Value carrying n. It is not bound to
// any register: constants are materialized as immediates only when an
// operand needs them (SPEC_FULL.md §4.4).
func (s *Session) NumberLiteral(n uint64) *Value {
	return &Value{Type: Int, Constant: true, ConstValue: n}
}

// Call lowers a function call (SPEC_FULL.md §4.5). args must already be in
// positional order; excess arguments beyond six are accepted (and parsed
// by the caller) but, matching the known limitation called out in §11, are
// not passed to the callee at all -- only the first six ever reach a
// register.
func (s *Session) Call(fun *Value, args []*Value) (*Value, error) {
	if !fun.IsFunction() {
		return nil, fmt.Errorf("calling a non-function: %s", fun.Ident)
	}

	var slots [int(regfile.NumRegs)]*Value
	for i, a := range args {
		if i < len(slots) {
			slots[i] = a
		}
	}

	for i := 0; i < len(slots); i++ {
		reg := regfile.RDI - regfile.Reg(i)
		if slots[i] != nil {
			if _, err := s.load(slots[i], &reg); err != nil {
				return nil, err
			}
		} else if s.regs.Occupied(reg) {
			// Reserve the register by spilling whatever else is
			// live there, so the call doesn't clobber it.
			s.push(reg)
		}
	}

	// The stack must be 16-aligned immediately before the call.
	if rem := (s.stackDepth + 8) % 16; rem != 0 {
		pad := 16 - rem
		s.out.Mnemonic2("sub", fmt.Sprintf("$%d", pad), "%rsp")
		s.stackDepth += pad
	}

	s.out.Mnemonic1("call", fun.Ident)
	for _, a := range slots {
		if a != nil {
			s.drop(a)
		}
	}

	if fun.ReturnType == Void {
		return &Value{Type: Void}, nil
	}
	result := &Value{Type: fun.ReturnType}
	s.regs.Bind(regfile.RAX, result)
	return result, nil
}
