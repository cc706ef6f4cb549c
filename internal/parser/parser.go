// Package parser implements a recursive-descent parser that turns a SOC
// token stream into an *ast.Program.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/lexer"
	"github.com/soc-lang/soc/internal/token"
)

// ParseError is a typed, actionable parse failure.
type ParseError struct {
	Pos      token.Position
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d:%d: expected %s, found %s", e.Pos.Line, e.Pos.Column, e.Expected, e.Found)
}

// Parser consumes tokens from a Lexer and builds an AST, accumulating
// errors rather than stopping at the first one (so callers can report
// everything wrong with a program in one pass).
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []*ParseError
}

// New creates a Parser over l, priming the current/lookahead tokens.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

// Errors returns every ParseError accumulated while parsing.
func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) advance() {
	p.cur = p.peek
	tok, err := p.l.NextToken()
	if err != nil {
		p.errors = append(p.errors, &ParseError{Pos: err.Pos, Expected: "valid token", Found: err.Reason})
		p.peek = token.Token{Kind: token.ILLEGAL, Pos: err.Pos}
		return
	}
	p.peek = tok
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind != k {
		p.errors = append(p.errors, &ParseError{
			Pos: p.cur.Pos, Expected: k.String(), Found: describeTok(p.cur),
		})
		return p.cur
	}
	tok := p.cur
	p.advance()
	return tok
}

func describeTok(t token.Token) string {
	if t.Literal != "" {
		return fmt.Sprintf("%s %q", t.Kind, t.Literal)
	}
	return t.Kind.String()
}

// ParseProgram parses the entire token stream as a sequence of top-level
// statements separated by `;`.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Base: ast.At(p.cur.Pos)}
	for p.cur.Kind != token.END {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		for p.cur.Kind == token.SEMI {
			p.advance()
		}
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	expr := p.parseSequence()
	stmt, ok := expr.(ast.Statement)
	if !ok {
		// Every expression doubles as a statement in SOC's grammar; wrap any
		// that didn't implement Statement directly isn't expected to occur,
		// but guard defensively rather than panic.
		return &ast.Sequence{Base: ast.At(p.cur.Pos), Items: []ast.Expression{expr}}
	}
	return stmt
}

// parseSequence is the statement-level entry point: it parses one
// assignment-level expression and returns it unwrapped. `;`-separated
// statements are split by the loops in ParseProgram and the do-block
// parser, not here.
func (p *Parser) parseSequence() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment implements precedence level 2, right-associative.
func (p *Parser) parseAssignment() ast.Expression {
	if p.cur.Kind == token.LET {
		return p.parseVariableDecl()
	}
	if p.cur.Kind == token.MUT {
		return p.parseMutableDecl()
	}
	if p.cur.Kind == token.IF {
		return p.parseIf()
	}
	if p.cur.Kind == token.WHILE {
		return p.parseWhile()
	}
	if p.cur.Kind == token.PIECEWISE {
		return p.parsePiecewise()
	}
	if p.cur.Kind == token.RETURN {
		return p.parseReturn()
	}
	if p.cur.Kind == token.IMPORT {
		return p.parseImport()
	}
	if p.cur.Kind == token.EXPORT {
		return p.parseExport()
	}

	left := p.parseOr()

	if p.cur.Kind == token.ASSIGN {
		pos := p.cur.Pos
		p.advance()
		value := p.parseAssignment() // right-associative
		if !isAssignable(left) {
			p.errors = append(p.errors, &ParseError{Pos: pos, Expected: "assignable target", Found: "expression"})
		}
		return &ast.Assignment{Base: ast.At(pos), Target: left, Value: value}
	}
	return left
}

func isAssignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.VariableRef, *ast.IndexAccess, *ast.FieldAccess:
		return true
	}
	return false
}

func (p *Parser) parseVariableDecl() ast.Expression {
	pos := p.cur.Pos
	p.advance() // let
	name := p.expect(token.IDENT).Literal
	p.expect(token.ASSIGN)
	value := p.parseAssignment()
	return &ast.VariableDecl{Base: ast.At(pos), Name: name, Value: value}
}

func (p *Parser) parseMutableDecl() ast.Expression {
	pos := p.cur.Pos
	p.advance() // mut
	name := p.expect(token.IDENT).Literal
	p.expect(token.ASSIGN)
	value := p.parseAssignment()
	return &ast.MutableDecl{Base: ast.At(pos), Name: name, Value: value}
}

func (p *Parser) parseReturn() ast.Expression {
	pos := p.cur.Pos
	p.advance()
	value := p.parseAssignment()
	return &ast.Return{Base: ast.At(pos), Value: value}
}

func (p *Parser) parseImport() ast.Expression {
	pos := p.cur.Pos
	p.advance()
	name := p.expect(token.STRING).Literal
	if name == "" {
		name = p.expect(token.IDENT).Literal
	}
	return &ast.Import{Base: ast.At(pos), Module: name}
}

func (p *Parser) parseExport() ast.Expression {
	pos := p.cur.Pos
	p.advance()
	name := p.expect(token.IDENT).Literal
	return &ast.Export{Base: ast.At(pos), Name: name}
}

func (p *Parser) parseIf() ast.Expression {
	pos := p.cur.Pos
	p.advance() // if
	p.expect(token.LPAREN)
	cond := p.parseAssignment()
	p.expect(token.COMMA)
	then := p.parseAssignment()
	var elseExpr ast.Expression
	if p.cur.Kind == token.COMMA {
		p.advance()
		elseExpr = p.parseAssignment()
	}
	p.expect(token.RPAREN)
	return &ast.If{Base: ast.At(pos), Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseWhile() ast.Expression {
	pos := p.cur.Pos
	p.advance() // while
	p.expect(token.LPAREN)
	cond := p.parseAssignment()
	p.expect(token.COMMA)
	body := p.parseAssignment()
	p.expect(token.RPAREN)
	return &ast.WhileLoop{Base: ast.At(pos), Cond: cond, Body: body}
}

// parsePiecewise parses `piecewise((c1,v1), (c2,v2), …, default?)`: each
// case is a parenthesised `(cond, value)` pair; an optional trailing bare
// expression (not wrapped in its own parens) is the default.
func (p *Parser) parsePiecewise() ast.Expression {
	pos := p.cur.Pos
	p.advance() // piecewise
	p.expect(token.LPAREN)
	pw := &ast.Piecewise{Base: ast.At(pos)}
	for p.cur.Kind != token.RPAREN && p.cur.Kind != token.END {
		if p.cur.Kind == token.LPAREN {
			p.advance()
			cond := p.parseAssignment()
			p.expect(token.COMMA)
			value := p.parseAssignment()
			p.expect(token.RPAREN)
			pw.Cases = append(pw.Cases, ast.PiecewiseCase{Cond: cond, Value: value})
		} else {
			pw.Default = p.parseAssignment()
		}
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return pw
}

// parseOr..parseMultiplicative implement precedence levels 3-8.
func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.cur.Kind == token.OR {
		pos := p.cur.Pos
		p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Base: ast.At(pos), Op: ast.Or, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()
	for p.cur.Kind == token.AND {
		pos := p.cur.Pos
		p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Base: ast.At(pos), Op: ast.And, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	for p.cur.Kind == token.EQ || p.cur.Kind == token.NEQ {
		op := ast.Eq
		if p.cur.Kind == token.NEQ {
			op = ast.Neq
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseComparison()
		left = &ast.BinaryExpr{Base: ast.At(pos), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for {
		var op ast.BinaryOp
		switch p.cur.Kind {
		case token.GT:
			op = ast.Gt
		case token.LT:
			op = ast.Lt
		case token.GTE:
			op = ast.Gte
		case token.LTE:
			op = ast.Lte
		default:
			return left
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Base: ast.At(pos), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.cur.Kind == token.PLUS || p.cur.Kind == token.MINUS {
		op := ast.Add
		if p.cur.Kind == token.MINUS {
			op = ast.Sub
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Base: ast.At(pos), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parsePower()
	for {
		var op ast.BinaryOp
		switch p.cur.Kind {
		case token.STAR:
			op = ast.Mul
		case token.SLASH:
			op = ast.Div
		case token.PERCENT:
			op = ast.Mod
		default:
			return left
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parsePower()
		left = &ast.BinaryExpr{Base: ast.At(pos), Op: op, Left: left, Right: right}
	}
}

// parsePower implements level 9: `^`, right-associative.
func (p *Parser) parsePower() ast.Expression {
	left := p.parseUnary()
	if p.cur.Kind == token.CARET {
		pos := p.cur.Pos
		p.advance()
		right := p.parsePower() // right-associative: recurse at the same level
		return &ast.BinaryExpr{Base: ast.At(pos), Op: ast.Pow, Left: left, Right: right}
	}
	return left
}

// parseUnary implements level 10: prefix `-`/`!`. Unary minus binds looser
// than `^` (`-2^2 == -4`): parseUnary parses the operand with parseUnary and
// then wrapPowerIfBare absorbs a trailing `^` into it, so `-2^2` is
// `-(2^2)`. parsePower calls parseUnary for its left operand and recurses on
// its right, which keeps `^` right-associative. `!` takes its operand
// without the wrapPowerIfBare step, so `!a^b` parses as `(!a)^b`.
func (p *Parser) parseUnary() ast.Expression {
	switch p.cur.Kind {
	case token.MINUS:
		pos := p.cur.Pos
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.At(pos), Op: ast.Neg, Operand: wrapPowerIfBare(p, operand)}
	case token.NOT:
		pos := p.cur.Pos
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.At(pos), Op: ast.Not, Operand: operand}
	}
	return p.parsePostfix()
}

// wrapPowerIfBare lets a unary minus's operand still absorb a trailing `^`
// so that `-2^2` is `-(2^2)`: after consuming the unary operand via
// parseUnary -> parsePostfix, check for a `^` continuation at this level.
func wrapPowerIfBare(p *Parser, operand ast.Expression) ast.Expression {
	if p.cur.Kind == token.CARET {
		pos := p.cur.Pos
		p.advance()
		right := p.parsePower()
		return &ast.BinaryExpr{Base: ast.At(pos), Op: ast.Pow, Left: operand, Right: right}
	}
	return operand
}

// parsePostfix implements level 11: call, index, field access, and the
// imaginary `i` suffix (handled already in the lexer for literals).
func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch p.cur.Kind {
		case token.LPAREN:
			expr = p.parseCall(expr)
		case token.LBRACKET:
			expr = p.parseIndex(expr)
		case token.DOT:
			pos := p.cur.Pos
			p.advance()
			field := p.expect(token.IDENT).Literal
			expr = &ast.FieldAccess{Base: ast.At(pos), Target: expr, Field: field}
		default:
			return expr
		}
	}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	pos := p.cur.Pos
	p.expect(token.LPAREN)
	var args []ast.Expression
	for p.cur.Kind != token.RPAREN && p.cur.Kind != token.END {
		args = append(args, p.parseAssignment())
		if p.cur.Kind == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return &ast.FunctionCall{Base: ast.At(pos), Callee: callee, Args: args}
}

func (p *Parser) parseIndex(target ast.Expression) ast.Expression {
	pos := p.cur.Pos
	p.expect(token.LBRACKET)
	var args []ast.IndexArg
	for p.cur.Kind != token.RBRACKET && p.cur.Kind != token.END {
		args = append(args, p.parseIndexArg())
		if p.cur.Kind == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACKET)
	return &ast.IndexAccess{Base: ast.At(pos), Target: target, Args: args}
}

func (p *Parser) parseIndexArg() ast.IndexArg {
	if p.cur.Kind == token.COLON {
		p.advance()
		return ast.IndexArg{Slice: true, FullAxis: true}
	}
	var lo ast.Expression
	if p.cur.Kind != token.COLON {
		lo = p.parseAssignment()
	}
	if p.cur.Kind == token.COLON {
		p.advance()
		var hi ast.Expression
		if p.cur.Kind != token.COMMA && p.cur.Kind != token.RBRACKET {
			hi = p.parseAssignment()
		}
		return ast.IndexArg{Slice: true, Lo: lo, Hi: hi}
	}
	return ast.IndexArg{Index: lo}
}

// parsePrimary implements level 12, including lambda disambiguation: an
// opening `(` commits to a lambda only once the matching `)` is followed
// directly by `=>`.
func (p *Parser) parsePrimary() ast.Expression {
	pos := p.cur.Pos
	switch p.cur.Kind {
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		lit := p.cur.Literal
		p.advance()
		return &ast.StringLiteral{Base: ast.At(pos), Value: lit}
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{Base: ast.At(pos), Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Base: ast.At(pos), Value: false}
	case token.IDENT:
		return p.parseIdentOrLambda()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseRecordLiteral()
	case token.DO:
		return p.parseDoBlock()
	case token.LPAREN:
		return p.parseParenOrLambda()
	}

	p.errors = append(p.errors, &ParseError{Pos: pos, Expected: "expression", Found: describeTok(p.cur)})
	p.advance()
	return &ast.NumberLiteral{Base: ast.At(pos), Value: 0}
}

func (p *Parser) parseNumber() ast.Expression {
	pos := p.cur.Pos
	lit := p.cur.Literal
	p.advance()
	if strings.HasSuffix(lit, "i") {
		numPart := strings.TrimSuffix(lit, "i")
		im, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			im = 0
		}
		return &ast.ComplexLiteral{Base: ast.At(pos), Re: 0, Im: im}
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		v = 0
	}
	return &ast.NumberLiteral{Base: ast.At(pos), Value: v}
}

func (p *Parser) parseIdentOrLambda() ast.Expression {
	pos := p.cur.Pos
	name := p.cur.Literal
	if name == "rec" {
		p.advance()
		return &ast.RecReference{Base: ast.At(pos)}
	}
	if name == "self" {
		p.advance()
		return &ast.SelfReference{Base: ast.At(pos)}
	}
	// Single-parameter lambda: `name => expr`.
	if p.peek.Kind == token.FATARROW {
		p.advance() // ident
		p.advance() // =>
		body := p.parseAssignment()
		return &ast.Lambda{Base: ast.At(pos), Params: []string{name}, Body: body}
	}
	p.advance()
	return &ast.VariableRef{Base: ast.At(pos), Name: name}
}

// parseParenOrLambda disambiguates a parenthesised group from a
// multi-parameter lambda by tentatively scanning the parameter list; if it
// is a syntactically valid comma-separated identifier list and the closing
// `)` is followed by `=>`, it commits to a lambda.
func (p *Parser) parseParenOrLambda() ast.Expression {
	pos := p.cur.Pos
	if params, ok := p.tryParseLambdaParams(); ok {
		body := p.parseAssignment()
		return &ast.Lambda{Base: ast.At(pos), Params: params, Body: body}
	}
	p.expect(token.LPAREN)
	expr := p.parseAssignment()
	p.expect(token.RPAREN)
	return expr
}

// tryParseLambdaParams speculatively parses a `(ident, …) =>` lambda
// header. It saves a copy of the lexer's state together with the current
// and lookahead tokens and the error count, and restores all of them when
// the tokens after `(` turn out not to be a parameter list followed by
// `=>`, so the caller can reparse them as a parenthesised expression.
func (p *Parser) tryParseLambdaParams() ([]string, bool) {
	// Snapshot the lexer by value; restoring the copy rewinds it.
	saved := *p.l
	savedCur, savedPeek, savedErrs := p.cur, p.peek, len(p.errors)

	p.advance() // consume '('
	var params []string
	ok := true
	for p.cur.Kind != token.RPAREN {
		if p.cur.Kind != token.IDENT {
			ok = false
			break
		}
		params = append(params, p.cur.Literal)
		p.advance()
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if ok && p.cur.Kind == token.RPAREN {
		p.advance() // ')'
		if p.cur.Kind == token.FATARROW {
			p.advance() // '=>'
			return params, true
		}
	}

	// Not a lambda: restore lexer and token state.
	*p.l = saved
	p.cur, p.peek = savedCur, savedPeek
	p.errors = p.errors[:savedErrs]
	return nil, false
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	pos := p.cur.Pos
	p.expect(token.LBRACKET)
	lit := &ast.ArrayLiteral{Base: ast.At(pos)}
	for p.cur.Kind != token.RBRACKET && p.cur.Kind != token.END {
		if p.cur.Kind == token.SPREAD {
			p.advance()
			lit.Elements = append(lit.Elements, ast.ArrayElement{Expr: p.parseAssignment(), Spread: true})
		} else {
			lit.Elements = append(lit.Elements, ast.ArrayElement{Expr: p.parseAssignment()})
		}
		if p.cur.Kind == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACKET)
	return lit
}

func (p *Parser) parseRecordLiteral() ast.Expression {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	lit := &ast.RecordLiteral{Base: ast.At(pos)}
	seen := map[string]bool{}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.END {
		if p.cur.Kind == token.SPREAD {
			p.advance()
			value := p.parseAssignment()
			lit.Fields = append(lit.Fields, ast.RecordField{Value: value, Spread: true})
		} else {
			mutable := false
			if p.cur.Kind == token.MUT {
				mutable = true
				p.advance()
			}
			name := p.expect(token.IDENT).Literal
			if seen[name] {
				p.errors = append(p.errors, &ParseError{Pos: p.cur.Pos, Expected: "unique field name", Found: name})
			}
			seen[name] = true
			p.expect(token.COLON)
			value := p.parseAssignment()
			lit.Fields = append(lit.Fields, ast.RecordField{Name: name, Value: value, Mutable: mutable})
		}
		if p.cur.Kind == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return lit
}

func (p *Parser) parseDoBlock() ast.Expression {
	pos := p.cur.Pos
	p.advance() // do
	p.expect(token.LBRACE)
	seq := &ast.Sequence{Base: ast.At(pos)}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.END {
		seq.Items = append(seq.Items, p.parseAssignment())
		for p.cur.Kind == token.SEMI {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.DoBlock{Base: ast.At(pos), Body: seq}
}
