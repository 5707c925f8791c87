// Package resolver performs the single static pass between parsing and
// evaluation: for every variable-use expression (Variable, Assign, This,
// Super) it computes the number of enclosing scopes between the use and
// the scope that declares it, recording the result against the
// interpreter's resolution map keyed by the expression node's own
// identity. It also enforces the handful of errors jlox treats as static
// rather than runtime: reading a local in its own initializer, returning
// from top level, `this`/`super` outside a method, and a class declaring
// itself as its own superclass.
package resolver

import (
	"tree_lox/ast"
	"tree_lox/token"
	"tree_lox/value"
)

// Resolve is implemented by *interpreter.Interpreter; the Resolver records
// depths into it rather than returning a separate map, so that the
// interpreter owns resolution state exactly as it owns everything else it
// needs during evaluation.
type Resolve interface {
	Resolve(expr ast.Expr, depth int)
}

// ErrorReporter receives static errors discovered during resolution, in
// the same shape the parser reports syntax errors.
type ErrorReporter interface {
	Error(tok token.Token, message string)
}

type functionKind int

const (
	fkNone functionKind = iota
	fkFunction
	fkInitializer
	fkMethod
)

type classKind int

const (
	ckNone classKind = iota
	ckClass
	ckSubclass
)

// scope maps a name declared in that block to whether it has finished
// initializing (false while its own initializer expression is resolving).
type scope map[string]bool

type Resolver struct {
	interp          Resolve
	reporter        ErrorReporter
	scopes          []scope
	currentFunction functionKind
	currentClass    classKind
}

func New(interp Resolve, reporter ErrorReporter) *Resolver {
	return &Resolver{interp: interp, reporter: reporter}
}

// ResolveProgram resolves a whole top-level statement list, the entry
// point the driver calls once after parsing and before interpreting.
func (r *Resolver) ResolveProgram(stmts []ast.Stmt) {
	r.resolveStmts(stmts)
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	s.Accept(r)
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	e.Accept(r)
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) peek() scope {
	return r.scopes[len(r.scopes)-1]
}

// declare adds name to the innermost scope, marked not-yet-ready, and
// flags a re-declaration of the same name in the same block.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.peek()
	if _, ok := s[name.Lexeme]; ok {
		r.reporter.Error(name, "Already a variable with this name in this scope.")
	}
	s[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peek()[name.Lexeme] = true
}

// resolveLocal walks outward from the innermost scope looking for name,
// recording the distance against expr's own identity when found. A name
// resolved at no scope is left unresolved, meaning the interpreter treats
// it as global.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.interp.Resolve(expr, len(r.scopes)-1-i)
			return
		}
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
}

// Statement visitors.

func (r *Resolver) VisitBlockStmt(s *ast.Block) {
	r.beginScope()
	r.resolveStmts(s.Statements)
	r.endScope()
}

func (r *Resolver) VisitClassStmt(s *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = ckClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.reporter.Error(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = ckSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.peek()["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	defer r.endScope()
	r.peek()["this"] = true

	for _, method := range s.Methods {
		kind := fkMethod
		if method.Name.Lexeme == "init" {
			kind = fkInitializer
		}
		r.resolveFunction(method, kind)
	}
}

func (r *Resolver) VisitExpressionStmt(s *ast.ExpressionStmt) {
	r.resolveExpr(s.Expression)
}

func (r *Resolver) VisitFunctionStmt(s *ast.FunctionStmt) {
	r.declare(s.Name)
	r.define(s.Name)
	r.resolveFunction(s, fkFunction)
}

func (r *Resolver) VisitIfStmt(s *ast.If) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Then)
	if s.Else != nil {
		r.resolveStmt(s.Else)
	}
}

func (r *Resolver) VisitPrintStmt(s *ast.Print) {
	r.resolveExpr(s.Expression)
}

func (r *Resolver) VisitReturnStmt(s *ast.Return) {
	if r.currentFunction == fkNone {
		r.reporter.Error(s.Keyword, "Can't return from top-level code.")
	}
	if s.Value != nil {
		if r.currentFunction == fkInitializer {
			r.reporter.Error(s.Keyword, "Can't return a value from an initializer.")
		}
		r.resolveExpr(s.Value)
	}
}

func (r *Resolver) VisitVarStmt(s *ast.Var) {
	r.declare(s.Name)
	if s.Initializer != nil {
		r.resolveExpr(s.Initializer)
	}
	r.define(s.Name)
}

func (r *Resolver) VisitWhileStmt(s *ast.While) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Body)
}

// Expression visitors. Each returns nil: the Resolver never produces a
// value, only side-effects on the interpreter's resolution map.

func (r *Resolver) VisitAssignExpr(e *ast.Assign) value.Value {
	r.resolveExpr(e.Value)
	r.resolveLocal(e, e.Name)
	return nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.Binary) value.Value {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitCallExpr(e *ast.Call) value.Value {
	r.resolveExpr(e.Callee)
	for _, arg := range e.Arguments {
		r.resolveExpr(arg)
	}
	return nil
}

func (r *Resolver) VisitGetExpr(e *ast.Get) value.Value {
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitGroupingExpr(e *ast.Grouping) value.Value {
	r.resolveExpr(e.Expression)
	return nil
}

func (r *Resolver) VisitLiteralExpr(e *ast.Literal) value.Value {
	return nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.Logical) value.Value {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitSetExpr(e *ast.Set) value.Value {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitSuperExpr(e *ast.Super) value.Value {
	switch r.currentClass {
	case ckNone:
		r.reporter.Error(e.Keyword, "Can't use 'super' outside of a class.")
	case ckClass:
		r.reporter.Error(e.Keyword, "Can't use 'super' in a class with no superclass.")
	}
	r.resolveLocal(e, e.Keyword)
	return nil
}

func (r *Resolver) VisitThisExpr(e *ast.This) value.Value {
	if r.currentClass == ckNone {
		r.reporter.Error(e.Keyword, "Can't use 'this' outside of a class.")
		return nil
	}
	r.resolveLocal(e, e.Keyword)
	return nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.Unary) value.Value {
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitVariableExpr(e *ast.Variable) value.Value {
	if len(r.scopes) > 0 {
		if ready, ok := r.peek()[e.Name.Lexeme]; ok && !ready {
			r.reporter.Error(e.Name, "Can't read local variable in its own initializer.")
		}
	}
	r.resolveLocal(e, e.Name)
	return nil
}
