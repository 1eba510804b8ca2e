// Package symtab implements the compiler's symbol table: a linked,
// ordered sequence of declarations where new entries are prepended and a
// saved position marks a scope's restore point.
//
// This is an adaptation of the teacher's src/util/stack.go linked-list
// Stack. The shapes are the same -- a singly linked list of entries with a
// notion of "top" -- but util.Stack only exposes Push/Pop/Peek/Get, which
// model a LIFO queue of anonymous values. A symbol table additionally needs
// (a) lookup by name across the whole chain, not just the top, and (b) scope
// exit, which discards every entry pushed since a specific earlier point in
// one operation rather than one Pop at a time. Both require exposing the
// linked node itself as the "position" handle, which util.Stack deliberately
// keeps private. Table is therefore a purpose-built sibling of util.Stack
// rather than a literal reuse of it: same linkage idea, adapted interface.
package symtab

// entry is one declaration in the table.
type entry[T any] struct {
	ident string
	val   T
	next  *entry[T]
}

// Mark is an opaque restore point captured at scope entry. The zero Mark
// denotes the bottom of the table (no entries).
type Mark[T any] struct {
	head *entry[T]
}

// Table is a stack-structured, ordered collection of named declarations.
type Table[T any] struct {
	head *entry[T]
}

// New returns an empty Table.
func New[T any]() *Table[T] {
	return &Table[T]{}
}

// Declare prepends a new entry, shadowing any earlier declaration of the
// same name for the remainder of the enclosing scope.
func (t *Table[T]) Declare(ident string, val T) {
	t.head = &entry[T]{ident: ident, val: val, next: t.head}
}

// Lookup searches the table from most to least recently declared and
// returns the first entry named ident.
func (t *Table[T]) Lookup(ident string) (T, bool) {
	for e := t.head; e != nil; e = e.next {
		if e.ident == ident {
			return e.val, true
		}
	}
	var zero T
	return zero, false
}

// Mark captures the current head as a scope's restore point.
func (t *Table[T]) Mark() Mark[T] {
	return Mark[T]{head: t.head}
}

// Restore discards every entry declared since m was captured, in effect
// closing the scope m was taken at the start of.
func (t *Table[T]) Restore(m Mark[T]) {
	t.head = m.head
}

// Each calls f for every entry currently visible, most recently declared
// first. Used by end-of-scope bookkeeping that must touch every live
// declaration (e.g. invalidating stack positions beyond a restored depth).
func (t *Table[T]) Each(f func(val T)) {
	for e := t.head; e != nil; e = e.next {
		f(e.val)
	}
}
