// Package parser turns Lox source into an ast.Stmt list: Scanner produces
// tokens on demand, Parser consumes them with one token of lookahead using
// recursive descent, one function per grammar rule from lowest to highest
// precedence.
package parser

import (
	"fmt"
	"io"
	"os"

	"tree_lox/ast"
	"tree_lox/token"
	"tree_lox/value"
)

const maxCallArguments = 255

// SyntaxError is panicked by consume/primary on a malformed token stream
// and recovered by declarationRecovering, which then synchronizes to the next statement
// boundary and keeps parsing so a single mistake reports once rather than
// cascading into unrelated errors.
type SyntaxError struct{}

type Parser struct {
	scn      *Scanner
	previous token.Token
	current  token.Token
	stderr   io.Writer

	hadError bool
}

// NewParser constructs a Parser reporting syntax errors to os.Stderr. Use
// NewParserWithOutput to redirect diagnostics elsewhere (tests that want to
// assert on the reported message rather than only on HadError).
func NewParser(source string) *Parser {
	return NewParserWithOutput(source, os.Stderr)
}

func NewParserWithOutput(source string, stderr io.Writer) *Parser {
	return &Parser{scn: NewScannerWithOutput(source, stderr), stderr: stderr}
}

// Parse returns the parsed program, or nil if any syntax error was
// reported — jlox's convention of never handing a partially-broken tree to
// the resolver or interpreter.
func (p *Parser) Parse() []ast.Stmt {
	p.advance()

	var stmts []ast.Stmt
	for !p.check(token.END_OF_FILE) {
		stmts = append(stmts, p.declarationRecovering())
	}

	if p.hadError {
		return nil
	}
	return stmts
}

func (p *Parser) declarationRecovering() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(SyntaxError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = &ast.ExpressionStmt{Expression: &ast.Literal{Value: value.Nil{}}}
		}
	}()
	return p.declaration()
}

// Error implements resolver.ErrorReporter, so the driver can hand this
// Parser's error-reporting to the Resolver too and get one consistent
// diagnostic format for both static passes.
func (p *Parser) Error(tok token.Token, message string) {
	p.errorAt(tok, message)
}

func (p *Parser) HadError() bool { return p.hadError }

// Statement grammar.

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.LESS) {
		p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = &ast.Variable{Name: p.previous}
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	var methods []*ast.FunctionStmt
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.FunctionStmt {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxCallArguments {
				p.errorAt(p.current, fmt.Sprintf("Can't have more than %d parameters.", maxCallArguments))
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.blockBody()

	return &ast.FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.LEFT_BRACE):
		return &ast.Block{Statements: p.blockBody()}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.Print{Expression: expr}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous

	var val ast.Expr
	if !p.check(token.SEMICOLON) {
		val = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: val}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.If{Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Condition: condition, Body: body}
}

// forStatement desugars entirely into Block/While — there is no For node
// in the AST, matching jlox's own "syntactic sugar" treatment of for.
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.ExpressionStmt{Expression: increment}}}
	}
	if condition == nil {
		condition = &ast.Literal{Value: value.Boolean(true)}
	}
	body = &ast.While{Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.Block{Statements: []ast.Stmt{initializer, body}}
	}
	return body
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.ExpressionStmt{Expression: expr}
}

func (p *Parser) blockBody() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		stmts = append(stmts, p.declaration())
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

// Expression grammar, lowest to highest precedence.

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.EQUAL) {
		equals := p.previous
		val := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: val}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: val}
		default:
			p.errorAt(equals, "Invalid assignment target.")
		}
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.OR) {
		op := p.previous
		right := p.logicAnd()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.leftBinary(p.comparison, token.EQUAL_EQUAL, token.BANG_EQUAL)
}

func (p *Parser) comparison() ast.Expr {
	return p.leftBinary(p.term, token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL)
}

func (p *Parser) term() ast.Expr {
	return p.leftBinary(p.factor, token.PLUS, token.MINUS)
}

func (p *Parser) factor() ast.Expr {
	return p.leftBinary(p.unary, token.STAR, token.SLASH)
}

// leftBinary parses a left-associative chain of Binary expressions sharing
// the same next-higher-precedence operand rule and operator set.
func (p *Parser) leftBinary(operand func() ast.Expr, kinds ...token.Kind) ast.Expr {
	expr := operand()
	for p.matchAny(kinds...) {
		op := p.previous
		right := operand()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.matchAny(token.BANG, token.MINUS) {
		op := p.previous
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxCallArguments {
				p.errorAt(p.current, fmt.Sprintf("Can't have more than %d arguments.", maxCallArguments))
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: value.Boolean(false)}
	case p.match(token.TRUE):
		return &ast.Literal{Value: value.Boolean(true)}
	case p.match(token.NIL):
		return &ast.Literal{Value: value.Nil{}}
	case p.matchAny(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous.Literal}
	case p.match(token.SUPER):
		keyword := p.previous
		p.consume(token.DOT, "Expect '.' after 'super'.")
		method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous}
	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous}
	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{Expression: expr}
	}

	p.errorAt(p.current, "Expect expression.")
	panic(SyntaxError{})
}

// Token stream helpers.

func (p *Parser) match(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.match(k) {
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	return p.current.Kind == kind
}

func (p *Parser) advance() token.Token {
	p.previous = p.current
	p.current = p.scn.NextToken()
	return p.previous
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.current, message)
	panic(SyntaxError{})
}

func (p *Parser) errorAt(tok token.Token, message string) {
	p.hadError = true

	at := "'" + tok.Lexeme + "'"
	if tok.Kind == token.END_OF_FILE {
		at = "end"
	}
	fmt.Fprintf(p.stderr, "[line %d] Error at %s: %s\n", tok.Line, at, message)
}

// synchronize discards tokens until it reaches what looks like the start
// of the next statement, so one syntax error is reported once instead of
// triggering a cascade of spurious follow-on errors.
func (p *Parser) synchronize() {
	p.advance()

	for p.current.Kind != token.END_OF_FILE {
		if p.previous.Kind == token.SEMICOLON {
			return
		}

		switch p.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}

		p.advance()
	}
}
