// This file is part of talon - https://github.com/talonlang/talon
//
// Copyright 2026 The talon authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parser implements a recursive-descent parser that turns a talon
// token stream into an *ast.Program.
//
// The parser looks one token ahead and can save/restore its position for
// the small amount of backtracking needed to tell a plain expression apart
// from a function call in expression position. It does not recover from
// errors: the first unexpected token aborts the parse.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talonlang/talon/ast"
	"github.com/talonlang/talon/lexer"
	"github.com/talonlang/talon/token"
)

// Error is a parse failure: an unexpected token, or the end of input where
// more was expected.
type Error struct {
	Pos  token.Pos
	Got  token.Kind
	Want string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: unexpected %s, want %s", e.Pos, e.Got, e.Want)
}

// Parser consumes a fixed token slice and builds an AST from it.
type Parser struct {
	toks []token.Token
	pos  int
}

// New creates a Parser over an already-lexed token stream. The stream must
// end with a token.EOF token (as returned by lexer.All).
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse lexes src and parses it into a Program in one call.
func Parse(src string) (*ast.Program, error) {
	return New(lexer.All(src)).ParseProgram()
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// mark/reset implement the parser's bounded backtracking.
func (p *Parser) mark() int       { return p.pos }
func (p *Parser) reset(mark int)  { p.pos = mark }

func (p *Parser) expect(kind token.Kind, want string) (token.Token, error) {
	t := p.cur()
	if t.Kind != kind {
		return t, &Error{Pos: t.Pos, Got: t.Kind, Want: want}
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(kw string) (token.Token, error) {
	t := p.cur()
	if t.Kind != token.Keyword || t.Text != kw {
		return t, &Error{Pos: t.Pos, Got: t.Kind, Want: "keyword " + kw}
	}
	return p.advance(), nil
}

func (p *Parser) isKeyword(kw string) bool {
	t := p.cur()
	return t.Kind == token.Keyword && t.Text == kw
}

// skipSeparators consumes any run of statement/line separators: line-ends
// and semicolons.
func (p *Parser) skipSeparators() {
	for {
		k := p.cur().Kind
		if k == token.LineEnd || k == token.Semicolon {
			p.advance()
			continue
		}
		return
	}
}

// consumeTerminator consumes a single terminator if present. The grammar
// allows ε at the end of a block, so a missing terminator right before '}'
// or EOF is not an error.
func (p *Parser) consumeTerminator() {
	k := p.cur().Kind
	if k == token.Semicolon || k == token.LineEnd {
		p.advance()
	}
}

// ParseProgram parses the whole token stream as program := (function |
// line-end)*.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.skipSeparators()
	for p.cur().Kind != token.EOF {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
		p.skipSeparators()
	}
	return prog, nil
}

// parseFunction parses `fn IDENT '(' (IDENT (','? IDENT)*)? ')' block`.
func (p *Parser) parseFunction() (*ast.Function, error) {
	kw, err := p.expectKeyword("fn")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen, "("); err != nil {
		return nil, err
	}
	var params []string
	for p.cur().Kind != token.RParen {
		id, err := p.expect(token.Ident, "parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, id.Text)
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	if _, err := p.expect(token.RParen, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name.Text, Params: params, Body: body, Pos: kw.Pos}, nil
}

// parseBlock parses `'{' statement* '}'`.
func (p *Parser) parseBlock() ([]ast.Node, error) {
	if _, err := p.expect(token.LBrace, "{"); err != nil {
		return nil, err
	}
	p.skipSeparators()
	var stmts []ast.Node
	for p.cur().Kind != token.RBrace {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipSeparators()
	}
	if _, err := p.expect(token.RBrace, "}"); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseStatement parses one statement and its terminator.
func (p *Parser) parseStatement() (ast.Node, error) {
	t := p.cur()
	if t.Kind != token.Keyword {
		return nil, &Error{Pos: t.Pos, Got: t.Kind, Want: "statement"}
	}
	var stmt ast.Node
	var err error
	switch t.Text {
	case "set":
		p.advance()
		stmt, err = p.parseAssignment()
	case "if":
		stmt, err = p.parseIf()
	case "while":
		stmt, err = p.parseWhile()
	case "loop":
		stmt, err = p.parseLoop()
	case "call":
		p.advance()
		stmt, err = p.parseCall()
	case "return":
		stmt, err = p.parseReturn()
	case "print":
		stmt, err = p.parsePrint()
	default:
		return nil, &Error{Pos: t.Pos, Got: t.Kind, Want: "statement"}
	}
	if err != nil {
		return nil, err
	}
	p.consumeTerminator()
	return stmt, nil
}

// parseAssignment parses `lvalue '=' expr` (the `set` keyword is already
// consumed).
func (p *Parser) parseAssignment() (ast.Node, error) {
	lhs, err := p.parseLvalue()
	if err != nil {
		return nil, err
	}
	eq := p.cur()
	if eq.Kind != token.Operator || eq.Text != "=" {
		return nil, &Error{Pos: eq.Pos, Got: eq.Kind, Want: "="}
	}
	p.advance()
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignment(lhs.Pos(), lhs, rhs), nil
}

// parseLvalue parses `IDENT | '$' IDENT | IDENT '[' primary ']'`. Since the
// lexer folds a leading '$' into the identifier's text, the first two forms
// are distinguished by token.Token.IsMemory.
func (p *Parser) parseLvalue() (ast.Node, error) {
	id, err := p.expect(token.Ident, "identifier")
	if err != nil {
		return nil, err
	}
	if id.IsMemory() {
		return ast.NewMemoryValue(id.Pos, id.Text), nil
	}
	if p.cur().Kind == token.LBracket {
		p.advance()
		offset, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket, "]"); err != nil {
			return nil, err
		}
		return ast.NewMemoryOffset(id.Pos, ast.NewIdentifier(id.Pos, id.Text), offset), nil
	}
	return ast.NewIdentifier(id.Pos, id.Text), nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	kw, err := p.expectKeyword("if")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewIfCondition(kw.Pos, cond, body), nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	kw, err := p.expectKeyword("while")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(kw.Pos, cond, body), nil
}

func (p *Parser) parseLoop() (ast.Node, error) {
	kw, err := p.expectKeyword("loop")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewLoop(kw.Pos, body), nil
}

// parseCall parses `IDENT '(' primary* ')'` (the `call` keyword, when
// present, is already consumed by the caller).
func (p *Parser) parseCall() (*ast.FunctionCall, error) {
	name, err := p.expect(token.Ident, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen, "("); err != nil {
		return nil, err
	}
	var args []ast.Node
	for p.cur().Kind != token.RParen {
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	if _, err := p.expect(token.RParen, ")"); err != nil {
		return nil, err
	}
	return ast.NewFunctionCall(name.Pos, name.Text, args), nil
}

// parseReturn parses `return expr?`; a bare return synthesises Literal(0).
func (p *Parser) parseReturn() (ast.Node, error) {
	kw, err := p.expectKeyword("return")
	if err != nil {
		return nil, err
	}
	if p.atStatementEnd() {
		return ast.NewReturn(kw.Pos, ast.NewLiteral(kw.Pos, 0)), nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(kw.Pos, val), nil
}

func (p *Parser) parsePrint() (ast.Node, error) {
	kw, err := p.expectKeyword("print")
	if err != nil {
		return nil, err
	}
	val, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return ast.NewPrint(kw.Pos, val), nil
}

// atStatementEnd reports whether the current token could only be a
// terminator or block end, used to detect a bare `return`.
func (p *Parser) atStatementEnd() bool {
	switch p.cur().Kind {
	case token.Semicolon, token.LineEnd, token.RBrace, token.EOF:
		return true
	}
	return false
}

// parseCond parses `primary compop primary`.
func (p *Parser) parseCond() (*ast.Comparison, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	opTok := p.cur()
	if opTok.Kind != token.Comparator {
		return nil, &Error{Pos: opTok.Pos, Got: opTok.Kind, Want: "comparator"}
	}
	p.advance()
	op, err := compareKind(opTok.Text, opTok.Pos)
	if err != nil {
		return nil, err
	}
	rhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return ast.NewComparison(lhs.Pos(), lhs, rhs, op), nil
}

func compareKind(text string, pos token.Pos) (ast.CompareKind, error) {
	switch text {
	case ">":
		return ast.GT, nil
	case ">=":
		return ast.GE, nil
	case "==":
		return ast.EQ, nil
	case "!=":
		return ast.NE, nil
	case "<=":
		return ast.LE, nil
	case "<":
		return ast.LT, nil
	}
	return 0, &Error{Pos: pos, Got: token.Comparator, Want: "one of == != <= >= < >"}
}

// parseExpr parses `call | primary (binop primary)?`. An identifier
// immediately followed by '(' is reparsed as a call.
func (p *Parser) parseExpr() (ast.Node, error) {
	if p.cur().Kind == token.Ident {
		m := p.mark()
		if call, ok := p.tryCall(); ok {
			return call, nil
		}
		p.reset(m)
	}
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == token.Operator && isBinOp(p.cur().Text) {
		opTok := p.advance()
		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return ast.NewOperation(lhs.Pos(), lhs, rhs, binOpKind(opTok.Text)), nil
	}
	return lhs, nil
}

func isBinOp(text string) bool {
	switch text {
	case "+", "-", "*", "/", "%":
		return true
	}
	return false
}

func binOpKind(text string) ast.OpKind {
	switch text {
	case "+":
		return ast.Add
	case "-":
		return ast.Sub
	case "*":
		return ast.Mul
	case "/":
		return ast.Div
	default:
		return ast.Mod
	}
}

// tryCall attempts to parse the current position as a function-call
// expression, returning ok=false without consuming input if it isn't one.
func (p *Parser) tryCall() (*ast.FunctionCall, bool) {
	name := p.cur()
	if name.Kind != token.Ident {
		return nil, false
	}
	p.advance()
	if p.cur().Kind != token.LParen {
		return nil, false
	}
	p.advance()
	var args []ast.Node
	for p.cur().Kind != token.RParen {
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, false
		}
		args = append(args, arg)
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	p.advance() // ')'
	return ast.NewFunctionCall(name.Pos, name.Text, args), true
}

// parsePrimary parses `LITERAL | IDENT | '(' expr ')'`.
func (p *Parser) parsePrimary() (ast.Node, error) {
	t := p.cur()
	switch t.Kind {
	case token.Int:
		p.advance()
		return ast.NewLiteral(t.Pos, parseLiteral(t.Text)), nil
	case token.Ident:
		p.advance()
		if t.IsMemory() {
			return ast.NewMemoryValue(t.Pos, t.Text), nil
		}
		return ast.NewIdentifier(t.Pos, t.Text), nil
	case token.LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, &Error{Pos: t.Pos, Got: t.Kind, Want: "literal, identifier, or ("}
}

// parseLiteral converts a token.Int token's text (underscores already
// validated by the lexer) into its int32 value.
func parseLiteral(text string) int32 {
	n, _ := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 10, 32)
	return int32(n)
}
