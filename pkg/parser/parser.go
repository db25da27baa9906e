// Package parser implements the recursive-descent parser over the token
// stream produced by pkg/scanner, following the grammar and precedence
// table given for Rune's expression and statement forms.
package parser

import (
	"rune/pkg/ast"
	"rune/pkg/diagnostics"
	"rune/pkg/token"
)

const maxParamsOrArgs = 32

// parseError unwinds the current declaration so the parser can
// synchronize at a statement boundary; it never escapes Parse.
type parseError struct{}

// Parser turns a token stream into a statement list.
type Parser struct {
	tokens  []token.Token
	current int
	diags   *diagnostics.Bag
}

// New returns a Parser over tokens, reporting syntax errors into diags.
func New(tokens []token.Token, diags *diagnostics.Bag) *Parser {
	return &Parser{tokens: tokens, diags: diags}
}

// Parse runs the parser to completion, returning a (possibly partial)
// statement list. Callers must consult diags.HasErrors() before executing.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declarationRecovering(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *Parser) declarationRecovering() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.declaration()
}

// declaration → funDecl | classDecl | varDecl | statement
func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Class):
		return p.classDeclaration()
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.Less) {
		superNameTok := p.consume(token.Identifier, "Expect superclass name.")
		superclass = ast.NewVariable(superNameTok)
	}

	p.consume(token.LeftBrace, "Expect '{' before class body.")

	var methods, classMethods []*ast.Function
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		isClassMethod := p.match(token.Class)
		method := p.function("method")
		if isClassMethod {
			classMethods = append(classMethods, method)
		} else {
			methods = append(methods, method)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after class body.")

	return ast.NewClass(name, superclass, methods, classMethods)
}

// funDecl/function → IDENTIFIER "(" params? ")" block
func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")
	params := p.parameterList()
	p.consume(token.RightParen, "Expect ')' after parameters.")
	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()
	return ast.NewFunction(name, params, body)
}

func (p *Parser) parameterList() []token.Token {
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxParamsOrArgs {
				p.errorAt(p.peek(), "Can't have more than 32 parameters.")
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	return params
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")
	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration.")
	return ast.NewVar(name, initializer)
}

// statement → forStmt | ifStmt | printStmt | returnStmt
//           | breakStmt | whileStmt | block | exprStmt
func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.Break):
		return p.breakStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LeftBrace):
		return ast.NewBlock(p.block())
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if stmt := p.declarationRecovering(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return ast.NewExpression(expr)
}

func (p *Parser) printStatement() ast.Stmt {
	value := p.expression()
	p.consume(token.Semicolon, "Expect ';' after value.")
	return ast.NewPrint(value)
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after return value.")
	return ast.NewReturn(keyword, value)
}

func (p *Parser) breakStatement() ast.Stmt {
	keyword := p.previous()
	p.consume(token.Semicolon, "Expect ';' after 'break'.")
	return ast.NewBreak(keyword)
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return ast.NewIf(condition, thenBranch, elseBranch)
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return ast.NewWhile(condition, body)
}

// forStatement desugars "for (init; cond; incr) body" into
// "{ init; while (cond) { body; incr; } }", where a missing cond becomes
// the literal true and a missing init or incr is simply left out.
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = ast.NewBlock([]ast.Stmt{body, ast.NewExpression(increment)})
	}

	if condition == nil {
		condition = ast.NewLiteral(true)
	}
	body = ast.NewWhile(condition, body)

	if initializer != nil {
		body = ast.NewBlock([]ast.Stmt{initializer, body})
	}
	return body
}

// ---- expressions, lowest precedence first ----

// expression → comma
func (p *Parser) expression() ast.Expr { return p.comma() }

// comma → assignment ( "," assignment )*
func (p *Parser) comma() ast.Expr {
	expr := p.assignment()
	for p.match(token.Comma) {
		op := p.previous()
		right := p.assignment()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

// assignment → ( call "." IDENTIFIER | IDENTIFIER ) "=" assignment | conditional
func (p *Parser) assignment() ast.Expr {
	expr := p.conditional()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(target.Name, value)
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value)
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return value
		}
	}
	return expr
}

// conditional → lambda ( "?" expression ":" conditional )?
func (p *Parser) conditional() ast.Expr {
	expr := p.lambda()
	if p.match(token.Question) {
		then := p.expression()
		p.consume(token.Colon, "Expect ':' after then branch of ternary.")
		elze := p.conditional()
		expr = ast.NewTernary(expr, then, elze)
	}
	return expr
}

// lambda → "lambda" "(" params? ")" block | logicOr
func (p *Parser) lambda() ast.Expr {
	if p.match(token.Lambda) {
		keyword := p.previous()
		p.consume(token.LeftParen, "Expect '(' after 'lambda'.")
		params := p.parameterList()
		p.consume(token.RightParen, "Expect ')' after lambda parameters.")
		p.consume(token.LeftBrace, "Expect '{' before lambda body.")
		body := p.block()
		return ast.NewLambda(keyword, params, body)
	}
	return p.logicOr()
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.Or) {
		op := p.previous()
		right := p.logicAnd()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.binaryLevel(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() ast.Expr {
	return p.binaryLevel(p.addition, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) addition() ast.Expr {
	return p.binaryLevel(p.multiplication, token.Minus, token.Plus)
}

func (p *Parser) multiplication() ast.Expr {
	return p.binaryLevel(p.unary, token.Slash, token.Star)
}

// binaryLevel implements a single left-associative binary precedence
// level: next ( (kinds) next )*.
func (p *Parser) binaryLevel(next func() ast.Expr, kinds ...token.Kind) ast.Expr {
	expr := next()
	for p.matchAny(kinds...) {
		op := p.previous()
		right := next()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

// unary → ("!"|"-") unary | call
//
// Also implements the leading-binary diagnostic: if a binary operator
// appears where a unary is expected, the right operand is parsed and
// discarded at the appropriate precedence so parsing can continue, and
// "Expected a left operand." is reported at that operator.
func (p *Parser) unary() ast.Expr {
	if p.matchAny(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return ast.NewUnary(op, right)
	}

	if p.matchAny(token.Comma) {
		op := p.previous()
		p.assignment()
		p.errorAt(op, "Expected a left operand.")
		return p.unary()
	}
	if p.matchAny(token.Question) {
		op := p.previous()
		p.expression()
		p.consume(token.Colon, "Expect ':' after then branch of ternary.")
		p.conditional()
		p.errorAt(op, "Expected a left operand.")
		return p.unary()
	}
	if p.matchAny(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		p.comparison()
		p.errorAt(op, "Expected a left operand.")
		return p.unary()
	}
	if p.matchAny(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		p.addition()
		p.errorAt(op, "Expected a left operand.")
		return p.unary()
	}
	if p.matchAny(token.Plus) {
		op := p.previous()
		p.multiplication()
		p.errorAt(op, "Expected a left operand.")
		return p.unary()
	}
	if p.matchAny(token.Slash, token.Star) {
		op := p.previous()
		p.unary()
		p.errorAt(op, "Expected a left operand.")
		return p.unary()
	}

	return p.call()
}

// call → primary ( "(" arguments? ")" | "." IDENTIFIER )*
func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'.")
			expr = ast.NewGet(expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxParamsOrArgs {
				p.errorAt(p.peek(), "Can't have more than 32 arguments.")
			}
			args = append(args, p.assignment())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return ast.NewCall(callee, paren, args)
}

// primary → "false"|"true"|"nil"|NUMBER|STRING
//         | "this" | IDENTIFIER | "(" expression ")"
func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(false)
	case p.match(token.True):
		return ast.NewLiteral(true)
	case p.match(token.Nil):
		return ast.NewLiteral(nil)
	case p.match(token.Number), p.match(token.String):
		return ast.NewLiteral(p.previous().Literal)
	case p.match(token.This):
		return ast.NewThis(p.previous())
	case p.match(token.Super):
		p.errorAt(p.previous(), "'super' is not a valid expression.")
		return ast.NewLiteral(nil)
	case p.match(token.Identifier):
		return ast.NewVariable(p.previous())
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return ast.NewGrouping(expr)
	default:
		p.errorAt(p.peek(), "Expect expression.")
		panic(parseError{})
	}
}

// ---- token stream helpers ----

func (p *Parser) match(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.peek(), message)
	panic(parseError{})
}

func (p *Parser) errorAt(tok token.Token, message string) {
	p.diags.ReportAt(tok, message)
}

// synchronize discards tokens until it finds a likely statement boundary:
// just past a ';', or just before a statement-starting keyword.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}
