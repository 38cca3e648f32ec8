package reference

import (
	"fmt"
	"strconv"

	"github.com/etude-lang/etude-ls/compiler"
)

// parser is a small recursive-descent parser covering the practical
// subset of etude this reference front end supports: function, variable,
// and struct-type declarations; let/return/yield/assignment/expression
// statements; and calls, field access, binary/unary operators, and
// struct compound initializers in expression position. Variant types and
// match expressions are modeled in the compiler package's AST (so a
// richer front end could produce them) but this parser does not emit
// them -- see DESIGN.md.
type parser struct {
	lex  *lexer
	cur  token
	errs []error
}

func newParser(src []byte) *parser {
	p := &parser{lex: newLexer(src)}
	p.advance()
	return p
}

func (p *parser) advance() token {
	prev := p.cur
	p.cur = p.lex.next()
	return prev
}

func (p *parser) errorf(loc compiler.LexLocation, format string, args ...interface{}) {
	p.errs = append(p.errs, &compiler.LocatedCompileError{
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (p *parser) expectPunct(text string) bool {
	if p.cur.kind == tokPunct && p.cur.text == text {
		p.advance()
		return true
	}
	p.errorf(p.cur.loc(), "expected %q, found %q", text, p.cur.text)
	return false
}

func (p *parser) atPunct(text string) bool {
	return p.cur.kind == tokPunct && p.cur.text == text
}

func (p *parser) atKeyword(text string) bool {
	return p.cur.kind == tokKeyword && p.cur.text == text
}

// Parse consumes the whole source, returning every top-level declaration
// it managed to recover and any errors accumulated along the way. A
// syntax error in one declaration does not stop parsing of the rest.
func (p *parser) Parse() ([]compiler.Declaration, []error) {
	var decls []compiler.Declaration
	for p.cur.kind != tokEOF {
		d := p.parseDecl()
		if d != nil {
			decls = append(decls, d)
		} else {
			p.advance() // avoid an infinite loop on unrecognized input
		}
	}
	return decls, p.errs
}

func (p *parser) parseDecl() compiler.Declaration {
	switch {
	case p.atKeyword("fn"):
		return p.parseFunctionDecl()
	case p.atKeyword("let") || p.atKeyword("mut"):
		return p.parseVariableDecl()
	case p.atKeyword("type"):
		return p.parseTypeDecl()
	default:
		p.errorf(p.cur.loc(), "expected a declaration, found %q", p.cur.text)
		return nil
	}
}

func (p *parser) parseFunctionDecl() compiler.Declaration {
	p.advance() // 'fn'
	nameTok := p.cur
	if nameTok.kind != tokIdent {
		p.errorf(nameTok.loc(), "expected function name")
		return nil
	}
	p.advance()
	p.expectPunct("(")
	var params []compiler.Parameter
	for !p.atPunct(")") && p.cur.kind != tokEOF {
		if p.cur.kind == tokIdent {
			params = append(params, compiler.Parameter{Name: p.cur.text, NameLoc: p.cur.loc()})
			p.advance()
		} else if !p.atPunct(",") {
			break // reported by the expectPunct(")") below
		}
		if p.atPunct(",") {
			p.advance()
		}
	}
	p.expectPunct(")")
	if p.atPunct("->") {
		p.advance()
		p.advance() // return type name, ignored by this reference front end
	}
	body := p.parseBlock()
	return &compiler.FunctionDeclaration{
		Name:       nameTok.text,
		NameLoc:    nameTok.loc(),
		Parameters: params,
		Body:       body,
	}
}

func (p *parser) parseVariableDecl() *compiler.VariableDeclaration {
	mutable := p.atKeyword("mut")
	p.advance() // 'let' or 'mut'
	nameTok := p.cur
	if nameTok.kind != tokIdent {
		p.errorf(nameTok.loc(), "expected variable name")
		return nil
	}
	p.advance()
	var value compiler.Expression
	if p.atPunct("=") {
		p.advance()
		value = p.parseExpr()
	}
	if p.atPunct(";") {
		p.advance()
	}
	return &compiler.VariableDeclaration{
		Name:    nameTok.text,
		NameLoc: nameTok.loc(),
		Value:   value,
		Mutable: mutable,
	}
}

func (p *parser) parseTypeDecl() *compiler.TypeDeclaration {
	p.advance() // 'type'
	nameTok := p.cur
	if nameTok.kind != tokIdent {
		p.errorf(nameTok.loc(), "expected type name")
		return nil
	}
	p.advance()
	isStruct := p.atKeyword("struct")
	if isStruct {
		p.advance()
	}
	var fields []compiler.FieldDecl
	if p.atPunct("{") {
		p.advance()
		for !p.atPunct("}") && p.cur.kind != tokEOF {
			start := p.cur
			if p.cur.kind == tokIdent {
				fields = append(fields, compiler.FieldDecl{Name: p.cur.text, NameLoc: p.cur.loc()})
				p.advance()
			}
			if p.atPunct(":") {
				p.advance()
				if p.cur.kind == tokIdent {
					p.advance() // field type name, ignored
				}
			}
			if p.atPunct(",") {
				p.advance()
			}
			if p.cur == start {
				p.errorf(p.cur.loc(), "unexpected token %q in type body", p.cur.text)
				p.advance()
			}
		}
		p.expectPunct("}")
	}
	return &compiler.TypeDeclaration{
		Name:     nameTok.text,
		NameLoc:  nameTok.loc(),
		IsStruct: isStruct,
		Fields:   fields,
	}
}

func (p *parser) parseBlock() *compiler.Block {
	startLoc := p.cur.loc()
	p.expectPunct("{")
	block := &compiler.Block{Loc: startLoc}
	for !p.atPunct("}") && p.cur.kind != tokEOF {
		switch {
		case p.atKeyword("let") || p.atKeyword("mut"):
			if d := p.parseVariableDecl(); d != nil {
				block.Decls = append(block.Decls, d)
			}
		case p.atKeyword("return"):
			block.Statements = append(block.Statements, p.parseReturn())
		case p.atKeyword("yield"):
			block.Statements = append(block.Statements, p.parseYield())
		default:
			block.Statements = append(block.Statements, p.parseExprOrAssignment())
		}
	}
	p.expectPunct("}")
	return block
}

func (p *parser) parseReturn() compiler.Statement {
	loc := p.cur.loc()
	p.advance() // 'return'
	var val compiler.Expression
	if !p.atPunct(";") && !p.atPunct("}") {
		val = p.parseExpr()
	}
	if p.atPunct(";") {
		p.advance()
	}
	return &compiler.ReturnStatement{Loc: loc, Value: val}
}

func (p *parser) parseYield() compiler.Statement {
	loc := p.cur.loc()
	p.advance() // 'yield'
	val := p.parseExpr()
	if p.atPunct(";") {
		p.advance()
	}
	return &compiler.YieldStatement{Loc: loc, Value: val}
}

func (p *parser) parseExprOrAssignment() compiler.Statement {
	loc := p.cur.loc()
	expr := p.parseExpr()
	if p.atPunct("=") {
		p.advance()
		val := p.parseExpr()
		if p.atPunct(";") {
			p.advance()
		}
		return &compiler.AssignmentStatement{Loc: loc, Target: expr, Value: val}
	}
	if p.atPunct(";") {
		p.advance()
	}
	return &compiler.ExprStatement{Loc: loc, Expr: expr}
}

func (p *parser) parseExpr() compiler.Expression { return p.parseEquality() }

func (p *parser) parseEquality() compiler.Expression {
	left := p.parseAdditive()
	for p.cur.kind == tokPunct && (p.cur.text == "==" || p.cur.text == "!=") {
		op := p.cur.text
		loc := p.cur.loc()
		p.advance()
		right := p.parseAdditive()
		left = &compiler.BinaryExpression{Loc: loc, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseAdditive() compiler.Expression {
	left := p.parseUnary()
	for p.cur.kind == tokPunct && (p.cur.text == "+" || p.cur.text == "-" || p.cur.text == "*" || p.cur.text == "/") {
		op := p.cur.text
		loc := p.cur.loc()
		p.advance()
		right := p.parseUnary()
		left = &compiler.BinaryExpression{Loc: loc, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseUnary() compiler.Expression {
	if p.atPunct("*") {
		loc := p.cur.loc()
		p.advance()
		return &compiler.DerefExpression{Loc: loc, Operand: p.parseUnary()}
	}
	if p.atPunct("&") {
		loc := p.cur.loc()
		p.advance()
		return &compiler.AddressOfExpression{Loc: loc, Operand: p.parseUnary()}
	}
	if p.atPunct("-") || p.atPunct("!") {
		op := p.cur.text
		loc := p.cur.loc()
		p.advance()
		return &compiler.UnaryExpression{Loc: loc, Op: op, Operand: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() compiler.Expression {
	expr := p.parsePrimary()
	for {
		switch {
		case p.atPunct("."):
			p.advance()
			nameTok := p.cur
			p.advance()
			expr = &compiler.FieldAccess{Receiver: expr, FieldName: nameTok.text, Loc: nameTok.loc()}
		case p.atPunct("("):
			loc := p.cur.loc()
			p.advance()
			var args []compiler.Expression
			for !p.atPunct(")") && p.cur.kind != tokEOF {
				args = append(args, p.parseExpr())
				if p.atPunct(",") {
					p.advance()
				}
			}
			p.expectPunct(")")
			expr = &compiler.CallExpression{Loc: loc, Callee: expr, Args: args}
		default:
			return expr
		}
	}
}

func (p *parser) parsePrimary() compiler.Expression {
	switch {
	case p.cur.kind == tokIdent:
		nameTok := p.advance()
		if p.atPunct("{") {
			return p.parseCompoundInitializer(nameTok)
		}
		return &compiler.VariableAccess{Name: nameTok.text, Loc: nameTok.loc()}

	case p.cur.kind == tokNumber:
		tok := p.advance()
		return &compiler.VariableAccess{Name: tok.text, Loc: tok.loc()} // literal, resolved as unbound

	case p.cur.kind == tokString:
		tok := p.advance()
		return &compiler.VariableAccess{Name: strconv.Quote(tok.text), Loc: tok.loc()}

	case p.atKeyword("true") || p.atKeyword("false"):
		tok := p.advance()
		return &compiler.VariableAccess{Name: tok.text, Loc: tok.loc()}

	case p.atPunct("("):
		p.advance()
		inner := p.parseExpr()
		p.expectPunct(")")
		return inner

	case p.atKeyword("if"):
		return p.parseIf()

	default:
		p.errorf(p.cur.loc(), "unexpected token %q", p.cur.text)
		loc := p.cur.loc()
		p.advance()
		return &compiler.VariableAccess{Name: "<error>", Loc: loc}
	}
}

func (p *parser) parseCompoundInitializer(nameTok token) compiler.Expression {
	loc := p.cur.loc()
	p.advance() // '{'
	var fields []compiler.FieldInit
	for !p.atPunct("}") && p.cur.kind != tokEOF {
		start := p.cur
		if p.cur.kind == tokIdent {
			fieldNameTok := p.cur
			p.advance()
			if p.atPunct(":") {
				p.advance()
				fields = append(fields, compiler.FieldInit{
					Name:    fieldNameTok.text,
					NameLoc: fieldNameTok.loc(),
					Value:   p.parseExpr(),
				})
			}
		}
		if p.atPunct(",") {
			p.advance()
		}
		if p.cur == start {
			p.errorf(p.cur.loc(), "unexpected token %q in initializer", p.cur.text)
			p.advance()
		}
	}
	p.expectPunct("}")
	return &compiler.CompoundInitializer{
		Loc:         loc,
		TypeName:    nameTok.text,
		TypeNameLoc: nameTok.loc(),
		Fields:      fields,
	}
}

func (p *parser) parseIf() compiler.Expression {
	loc := p.cur.loc()
	p.advance() // 'if'
	cond := p.parseExpr()
	thenBlock := p.parseBlock()
	var elseExpr compiler.Expression
	if p.atKeyword("else") {
		p.advance()
		elseExpr = &compiler.BlockExpression{Block: p.parseBlock()}
	}
	return &compiler.IfExpression{
		Loc:      loc,
		Cond:     cond,
		ThenExpr: &compiler.BlockExpression{Block: thenBlock},
		ElseExpr: elseExpr,
	}
}
