package codegen

// BeginModule emits the leading `.text` directive, before any function
// body (SPEC_FULL.md §4.8).
func (s *Session) BeginModule() {
	s.out.Directive(".text")
}

// EndModule emits the trailing `.data` section and every accumulated
// string-literal entry, in the reverse of the order they were first seen
// (SPEC_FULL.md §3, §4.8): the string table is a stack in the original
// core, so last-declared comes out first.
func (s *Session) EndModule() {
	s.out.Directive(".data")
	for i := len(s.strings) - 1; i >= 0; i-- {
		e := s.strings[i]
		s.out.StringDirective(e.label, e.raw)
	}
}

// Flush flushes the underlying writer and returns the first write error
// seen, if any.
func (s *Session) Flush() error {
	return s.out.Flush()
}
