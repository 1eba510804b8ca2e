// Package parser implements the recursive-descent parser of SPEC_FULL.md
// §4.2. It drives code generation directly: every production below calls
// straight into a *codegen.Session method as it recognizes that
// production, and no syntax tree is ever materialized. This is the one
// place this codebase's lineage (a goyacc-generated, tree-building,
// multi-backend pipeline) is deliberately not imitated -- a single-pass
// compiler has nothing later to walk a tree with.
package parser

import (
	"minicc/src/cerr"
	"minicc/src/codegen"
	"minicc/src/lexer"
	"minicc/src/token"
)

// Parser holds the single current token and the session it emits into.
type Parser struct {
	lex  *lexer.Lexer
	tok  token.Token
	sess *codegen.Session
}

// New returns a Parser positioned at the first token of src, ready to
// call Parse.
func New(lex *lexer.Lexer, sess *codegen.Session) (*Parser, error) {
	p := &Parser{lex: lex, sess: sess}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// advance reads the next token into p.tok.
func (p *Parser) advance() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

// check tests the current token against k, consuming and reporting true
// on a match.
func (p *Parser) check(k token.Kind) (bool, error) {
	if p.tok.Kind == k {
		if err := p.advance(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// expect requires the current token to be k, reporting a syntax error
// otherwise.
func (p *Parser) expect(k token.Kind) error {
	if p.tok.Kind != k {
		return cerr.Syntaxf(p.tok.Pos.String(), "expected %s, got %s", k, p.tok)
	}
	return p.advance()
}

// typeOf maps a type keyword to its codegen.Type, reporting false for
// anything else.
func typeOf(k token.Kind) (codegen.Type, bool) {
	switch k {
	case token.VOID:
		return codegen.Void, true
	case token.CHAR:
		return codegen.Char, true
	case token.INT:
		return codegen.Int, true
	default:
		return 0, false
	}
}

// Parse compiles an entire program: `program := { declaration (';' |
// function_body) } EOF` (SPEC_FULL.md §4.2), emitting the leading
// `.text` directive before the first declaration and the trailing
// `.data`/string table after the last.
func (p *Parser) Parse() error {
	p.sess.BeginModule()
	for p.tok.Kind != token.EOF {
		val, err := p.declaration()
		if err != nil {
			return err
		}
		if val == nil {
			return cerr.Syntaxf(p.tok.Pos.String(), "expected a declaration")
		}
		if err := p.sess.DeclareGlobal(val.Ident, val); err != nil {
			return cerr.Semanticf(p.tok.Pos.String(), "%s", err)
		}
		if p.tok.Kind == '{' {
			if err := p.functionBody(val); err != nil {
				return err
			}
		} else if err := p.expect(';'); err != nil {
			return err
		}
	}
	p.sess.EndModule()
	return nil
}

// declaration parses `type_tok { '*' } [ IDENT ] [ '(' params ')' ]`; a
// '*' after the type keyword makes the declared type a pointer. It returns
// nil, nil (not an error) when the current token is not a type keyword,
// matching parse_declaration's "not a declaration here" return.
func (p *Parser) declaration() (*codegen.Value, error) {
	typ, ok := typeOf(p.tok.Kind)
	if !ok {
		return nil, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.tok.Kind == '*' {
		typ = codegen.Pointer
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	val := &codegen.Value{Type: typ}
	if p.tok.Kind == token.IDENTIFIER {
		val.Ident = p.tok.Str
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if match, err := p.check('('); err != nil {
		return nil, err
	} else if match {
		val.ReturnType = val.Type
		val.Type = codegen.Function

		for {
			if closed, err := p.check(')'); err != nil {
				return nil, err
			} else if closed {
				break
			}
			if p.tok.Kind == token.ELLIPSIS {
				if err := p.advance(); err != nil {
					return nil, err
				}
				val.Varargs = true
				if err := p.expect(')'); err != nil {
					return nil, err
				}
				break
			}
			arg, err := p.declaration()
			if err != nil {
				return nil, err
			}
			if arg == nil {
				return nil, cerr.Syntaxf(p.tok.Pos.String(), "expected a parameter declaration")
			}
			val.Args = append(val.Args, arg)
			if p.tok.Kind != ')' {
				if err := p.expect(','); err != nil {
					return nil, err
				}
			}
		}
	}
	return val, nil
}

// functionBody compiles `'{' { statement } '}'` for a just-declared
// function, including the prologue/epilogue and parameter binding
// (SPEC_FULL.md §4.7).
func (p *Parser) functionBody(fun *codegen.Value) error {
	if fun.Type != codegen.Function {
		return cerr.Semanticf(p.tok.Pos.String(), "not a function: %s", fun.Ident)
	}

	p.sess.BeginFunction(fun.Ident)
	sc := p.sess.OpenScope()
	for i, arg := range fun.Args {
		p.sess.BindParam(arg.Ident, arg.Type, i)
	}

	if err := p.block(); err != nil {
		return err
	}

	p.sess.EndFunction()
	p.sess.CloseScope(sc)
	return nil
}

// block compiles `'{' { statement } '}' | statement`, always establishing
// its own scope: a block, braced or bare, always owns a symbol-table
// restore point (SPEC_FULL.md §4.6).
func (p *Parser) block() error {
	sc := p.sess.OpenScope()

	if match, err := p.check('{'); err != nil {
		return err
	} else if match {
		for {
			if closed, err := p.check('}'); err != nil {
				return err
			} else if closed {
				break
			}
			if err := p.statement(); err != nil {
				return err
			}
		}
	} else if err := p.statement(); err != nil {
		return err
	}

	p.sess.CloseScope(sc)
	return nil
}

// statement compiles one statement production (SPEC_FULL.md §4.6).
func (p *Parser) statement() error {
	switch p.tok.Kind {
	case token.IF:
		if err := p.advance(); err != nil {
			return err
		}
		return p.ifStatement()

	case token.WHILE:
		if err := p.advance(); err != nil {
			return err
		}
		return p.whileStatement()

	case token.FOR:
		if err := p.advance(); err != nil {
			return err
		}
		return p.forStatement()

	case token.RETURN:
		if err := p.advance(); err != nil {
			return err
		}
		return p.returnStatement()

	default:
		decl, err := p.declaration()
		if err != nil {
			return err
		}
		if decl != nil {
			v := p.sess.DeclareLocal(decl.Ident, decl.Type)
			if match, err := p.check('='); err != nil {
				return err
			} else if match {
				init, err := p.expr()
				if err != nil {
					return err
				}
				if err := p.sess.StoreInit(v, init); err != nil {
					return err
				}
			}
		} else {
			result, err := p.expr()
			if err != nil {
				return err
			}
			p.sess.Discard(result)
		}
		return p.expect(';')
	}
}

// ifStatement compiles `'if' '(' expr ')' block`.
func (p *Parser) ifStatement() error {
	if err := p.expect('('); err != nil {
		return err
	}
	old := p.sess.StackDepth()
	cond, err := p.expr()
	if err != nil {
		return err
	}
	if err := p.expect(')'); err != nil {
		return err
	}

	skip := p.sess.NewLabel()
	if err := p.sess.BranchIfZero(cond, skip); err != nil {
		return err
	}
	p.sess.EndBlock(old)

	if err := p.block(); err != nil {
		return err
	}
	p.sess.PlaceLabel(skip)
	return nil
}

// whileStatement compiles `'while' '(' expr ')' block`.
func (p *Parser) whileStatement() error {
	if err := p.expect('('); err != nil {
		return err
	}
	test := p.sess.NewLabel()
	p.sess.PlaceLabel(test)

	old := p.sess.StackDepth()
	cond, err := p.expr()
	if err != nil {
		return err
	}
	if err := p.expect(')'); err != nil {
		return err
	}

	end := p.sess.NewLabel()
	if err := p.sess.BranchIfZero(cond, end); err != nil {
		return err
	}
	p.sess.EndBlock(old)

	if err := p.block(); err != nil {
		return err
	}
	p.sess.Jump(test)
	p.sess.PlaceLabel(end)
	return nil
}

// forStatement compiles `'for' '(' expr ';' expr ';' expr ')' block`. The
// step is placed before the loop body in emission order; a passing test
// jumps over it to begin, and the step is reached only from the jump to
// the step label at the bottom of the body (SPEC_FULL.md §4.6).
func (p *Parser) forStatement() error {
	if err := p.expect('('); err != nil {
		return err
	}

	old := p.sess.StackDepth()
	init, err := p.expr()
	if err != nil {
		return err
	}
	p.sess.Discard(init)
	if err := p.expect(';'); err != nil {
		return err
	}
	p.sess.EndBlock(old)

	test := p.sess.NewLabel()
	p.sess.PlaceLabel(test)
	old = p.sess.StackDepth()
	cond, err := p.expr()
	if err != nil {
		return err
	}
	if err := p.expect(';'); err != nil {
		return err
	}

	end := p.sess.NewLabel()
	if err := p.sess.BranchIfZero(cond, end); err != nil {
		return err
	}
	begin := p.sess.NewLabel()
	p.sess.Jump(begin)
	p.sess.EndBlock(old)

	step := p.sess.NewLabel()
	p.sess.PlaceLabel(step)
	old = p.sess.StackDepth()
	stepVal, err := p.expr()
	if err != nil {
		return err
	}
	p.sess.Discard(stepVal)
	if err := p.expect(')'); err != nil {
		return err
	}
	p.sess.Jump(test)
	p.sess.EndBlock(old)

	p.sess.PlaceLabel(begin)
	if err := p.block(); err != nil {
		return err
	}
	p.sess.Jump(step)
	p.sess.PlaceLabel(end)
	return nil
}

// returnStatement compiles `'return' expr ';'`.
func (p *Parser) returnStatement() error {
	v, err := p.expr()
	if err != nil {
		return err
	}
	if err := p.expect(';'); err != nil {
		return err
	}
	return p.sess.Return(v)
}

// expr compiles `binop_expr [ '=' expr ]`. Assignment is right-associative
// and binds looser than every binary operator.
func (p *Parser) expr() (*codegen.Value, error) {
	lhs, err := p.binopExpr()
	if err != nil {
		return nil, err
	}
	if match, err := p.check('='); err != nil {
		return nil, err
	} else if match {
		rhs, err := p.expr()
		if err != nil {
			return nil, err
		}
		return p.sess.Assign(lhs, rhs)
	}
	return lhs, nil
}

// binopExpr compiles `term { ('+'|'-'|'*'|'<'|'>') term }`, all operators
// sharing one left-associative precedence level.
func (p *Parser) binopExpr() (*codegen.Value, error) {
	result, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok.Kind {
		case '+', '-', '*', '<', '>':
			op := byte(p.tok.Kind)
			if err := p.advance(); err != nil {
				return nil, err
			}
			rhs, err := p.term()
			if err != nil {
				return nil, err
			}
			result, err = p.sess.BinOp(op, result, rhs)
			if err != nil {
				return nil, err
			}
		default:
			return result, nil
		}
	}
}

// term compiles one term production: a parenthesized expression, unary
// minus, a call or variable reference, a number, or a string literal.
func (p *Parser) term() (*codegen.Value, error) {
	switch p.tok.Kind {
	case '(':
		if err := p.advance(); err != nil {
			return nil, err
		}
		cast, err := p.declaration()
		if err != nil {
			return nil, err
		}
		if cast != nil {
			return nil, cerr.Semanticf(p.tok.Pos.String(), "typecasting is not supported")
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return v, nil

	case '-':
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := p.term()
		if err != nil {
			return nil, err
		}
		return p.sess.Neg(v)

	case token.IDENTIFIER:
		name := p.tok.Str
		v, ok := p.sess.Lookup(name)
		if !ok {
			return nil, cerr.Semanticf(p.tok.Pos.String(), "undefined: %s", name)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if match, err := p.check('('); err != nil {
			return nil, err
		} else if match {
			args, err := p.args(v)
			if err != nil {
				return nil, err
			}
			return p.sess.Call(v, args)
		}
		return v, nil

	case token.NUMBER:
		n := p.tok.Num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.sess.NumberLiteral(n), nil

	case token.STRING:
		s := p.tok.Str
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.sess.StringLiteral(s)

	default:
		return nil, cerr.Syntaxf(p.tok.Pos.String(), "syntax error in expression, got %s", p.tok)
	}
}

// args compiles `ε | expr { ',' expr }` for a call to fun, enforcing the
// non-variadic argument-count limit as it goes (SPEC_FULL.md §4.5).
func (p *Parser) args(fun *codegen.Value) ([]*codegen.Value, error) {
	var vals []*codegen.Value
	i := 0
	for {
		if closed, err := p.check(')'); err != nil {
			return nil, err
		} else if closed {
			break
		}
		if i >= len(fun.Args) && !fun.Varargs {
			return nil, cerr.Semanticf(p.tok.Pos.String(), "too many arguments for %s", fun.Ident)
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
		i++
		if p.tok.Kind != ')' {
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
	}
	return vals, nil
}
