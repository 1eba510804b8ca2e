// Package codegen implements the register-tracking value model and
// on-the-fly x86-64 code generator this compiler's parser drives directly:
// there is no intermediate syntax tree (SPEC_FULL.md §4.2) -- every
// grammar production calls straight into a *Session method, which either
// emits assembly immediately or threads a Value through to the next call.
package codegen

// Type is the coarse type system: {void, function, pointer, char, int}.
// There is no further type checking and no implicit conversion between
// these (SPEC_FULL.md §3, §11): a binary operation's result simply takes
// its left operand's Type.
type Type int

const (
	Void Type = iota
	Function
	Pointer
	Char
	Int
)

func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case Function:
		return "function"
	case Pointer:
		return "pointer"
	case Char:
		return "char"
	case Int:
		return "int"
	default:
		return "unknown"
	}
}

// Value is the sole semantic record for every operand flowing through an
// expression: a global, a parameter, a local, a literal, or a temporary
// produced by an operator. A Value's identity is its pointer: the same
// logical Value may simultaneously be reachable through a register slot
// and a stack slot (after a spill), but it is never copied into a second,
// distinct Value while still live (SPEC_FULL.md §3).
type Value struct {
	Type Type

	// Ident is set only for top-level declarations and named parameters
	// at the point of a function definition; it is the value's global
	// or argument-binding name.
	Ident string

	Constant   bool
	ConstValue uint64

	// StackPos is positive when the value is materialized in a stack
	// slot: bytes from the stack base, such that the addressable offset
	// from the current stack pointer is CurrentDepth - StackPos. Zero
	// means "no stack slot".
	StackPos int

	// ReturnType and Varargs and Args are meaningful only when
	// Type == Function.
	ReturnType Type
	Varargs    bool
	Args       []*Value
}

// IsFunction reports whether v names a callable declaration.
func (v *Value) IsFunction() bool { return v.Type == Function }
