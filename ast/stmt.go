package ast

import "tree_lox/token"

type Stmt interface {
	Accept(StmtVisitor)
}

type StmtVisitor interface {
	VisitBlockStmt(s *Block)
	VisitClassStmt(s *Class)
	VisitExpressionStmt(s *ExpressionStmt)
	VisitFunctionStmt(s *FunctionStmt)
	VisitIfStmt(s *If)
	VisitPrintStmt(s *Print)
	VisitReturnStmt(s *Return)
	VisitVarStmt(s *Var)
	VisitWhileStmt(s *While)
}

type Block struct {
	Statements []Stmt
}

// Class carries its methods as FunctionStmt declarations; Superclass is nil
// for a class with no `< Name` clause.
type Class struct {
	Name       token.Token
	Superclass *Variable
	Methods    []*FunctionStmt
}

// ExpressionStmt is spec.md's "Expr" statement, named to avoid colliding
// with the Expr interface.
type ExpressionStmt struct {
	Expression Expr
}

// FunctionStmt declares either a top-level function or a method; which one
// it is, and whether it is an initializer, is determined by context
// (Resolver.VisitClassStmt / VisitFunctionStmt), not by a field on this node.
type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

type If struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when there is no else-branch
}

type Print struct {
	Expression Expr
}

type Return struct {
	Keyword token.Token
	Value   Expr // nil for a bare `return;`
}

type Var struct {
	Name        token.Token
	Initializer Expr // nil for `var x;` with no initializer
}

type While struct {
	Condition Expr
	Body      Stmt
}

func (s *Block) Accept(v StmtVisitor)          { v.VisitBlockStmt(s) }
func (s *Class) Accept(v StmtVisitor)          { v.VisitClassStmt(s) }
func (s *ExpressionStmt) Accept(v StmtVisitor) { v.VisitExpressionStmt(s) }
func (s *FunctionStmt) Accept(v StmtVisitor)   { v.VisitFunctionStmt(s) }
func (s *If) Accept(v StmtVisitor)             { v.VisitIfStmt(s) }
func (s *Print) Accept(v StmtVisitor)          { v.VisitPrintStmt(s) }
func (s *Return) Accept(v StmtVisitor)         { v.VisitReturnStmt(s) }
func (s *Var) Accept(v StmtVisitor)            { v.VisitVarStmt(s) }
func (s *While) Accept(v StmtVisitor)          { v.VisitWhileStmt(s) }
