// Package token defines the lexical token kinds produced by the lexer and
// consumed by the parser.
//
// Kinds below 256 are single-byte punctuation tokens and carry the byte
// itself as their numeric value (so '(' is both a valid Kind and the rune
// printed for it). Kinds at or above 256 are multi-character tokens:
// keywords, identifiers, numbers, strings and the end-of-file sentinel.
package token

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind int

// ---------------------
// ----- Constants -----
// ---------------------

// Multi-character token kinds. Punctuation tokens use their own byte value
// as their Kind, so these start comfortably above the single-byte range.
const (
	EOF Kind = 256 + iota
	IDENTIFIER
	NUMBER
	STRING
	ELLIPSIS

	// Reserved words.
	WHILE
	IF
	FOR
	RETURN
	CHAR
	INT
	VOID
)

// keywords maps reserved-word spellings to their Kind. Looked up once per
// identifier-shaped lexeme.
var keywords = map[string]Kind{
	"while":  WHILE,
	"if":     IF,
	"for":    FOR,
	"return": RETURN,
	"char":   CHAR,
	"int":    INT,
	"void":   VOID,
}

// Lookup returns the keyword Kind for s, or IDENTIFIER if s is not a
// reserved word.
func Lookup(s string) Kind {
	if k, ok := keywords[s]; ok {
		return k
	}
	return IDENTIFIER
}

// String returns a human-readable representation of k, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case IDENTIFIER:
		return "identifier"
	case NUMBER:
		return "number"
	case STRING:
		return "string"
	case ELLIPSIS:
		return ".."
	case WHILE:
		return "while"
	case IF:
		return "if"
	case FOR:
		return "for"
	case RETURN:
		return "return"
	case CHAR:
		return "char"
	case INT:
		return "int"
	case VOID:
		return "void"
	}
	if k >= 0 && k < 256 {
		return fmt.Sprintf("%q", rune(k))
	}
	return fmt.Sprintf("<unknown token %d>", int(k))
}

// Pos is a 1-indexed source position, kept for diagnostics the way the
// teacher's lexer item carries line/pos.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is the single current lexeme the lexer hands to the parser: a kind
// plus whichever payload is meaningful for that kind (Str for IDENTIFIER
// and STRING, Num for NUMBER), and the position it started at.
type Token struct {
	Kind Kind
	Str  string
	Num  uint64
	Pos  Pos
}

// String renders t for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case IDENTIFIER:
		return fmt.Sprintf("identifier %q", t.Str)
	case STRING:
		return fmt.Sprintf("string literal %q", t.Str)
	case NUMBER:
		return fmt.Sprintf("number %d", t.Num)
	default:
		return t.Kind.String()
	}
}
