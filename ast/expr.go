// Package ast defines the syntax tree Lox source parses into: expression
// and statement node families, each reached through a Visitor so that the
// resolver and interpreter can walk the tree without type-switching.
//
// Every node type is used through a pointer (*Assign, *Binary, ...) so its
// identity is stable and usable as a map key — the resolver keys its
// per-use lexical-depth map on exactly that pointer identity, never on
// structural equality.
package ast

import (
	"tree_lox/token"
	"tree_lox/value"
)

type Expr interface {
	Accept(ExprVisitor) value.Value
}

type ExprVisitor interface {
	VisitAssignExpr(e *Assign) value.Value
	VisitBinaryExpr(e *Binary) value.Value
	VisitCallExpr(e *Call) value.Value
	VisitGetExpr(e *Get) value.Value
	VisitGroupingExpr(e *Grouping) value.Value
	VisitLiteralExpr(e *Literal) value.Value
	VisitLogicalExpr(e *Logical) value.Value
	VisitSetExpr(e *Set) value.Value
	VisitSuperExpr(e *Super) value.Value
	VisitThisExpr(e *This) value.Value
	VisitUnaryExpr(e *Unary) value.Value
	VisitVariableExpr(e *Variable) value.Value
}

type Assign struct {
	Name  token.Token
	Value Expr
}

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

type Call struct {
	Callee    Expr
	Paren     token.Token // closing ')', used to report line on arity/call errors
	Arguments []Expr
}

type Get struct {
	Object Expr
	Name   token.Token
}

type Grouping struct {
	Expression Expr
}

type Literal struct {
	Value value.Value
}

type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

// Super and This are always local-variable-shaped lookups: the Resolver
// assigns them a lexical depth exactly like Variable, keyed on the node
// itself rather than on a nested Variable expression.
type Super struct {
	Keyword token.Token
	Method  token.Token
}

type This struct {
	Keyword token.Token
}

type Unary struct {
	Operator token.Token
	Right    Expr
}

type Variable struct {
	Name token.Token
}

func (e *Assign) Accept(v ExprVisitor) value.Value   { return v.VisitAssignExpr(e) }
func (e *Binary) Accept(v ExprVisitor) value.Value   { return v.VisitBinaryExpr(e) }
func (e *Call) Accept(v ExprVisitor) value.Value     { return v.VisitCallExpr(e) }
func (e *Get) Accept(v ExprVisitor) value.Value      { return v.VisitGetExpr(e) }
func (e *Grouping) Accept(v ExprVisitor) value.Value { return v.VisitGroupingExpr(e) }
func (e *Literal) Accept(v ExprVisitor) value.Value  { return v.VisitLiteralExpr(e) }
func (e *Logical) Accept(v ExprVisitor) value.Value  { return v.VisitLogicalExpr(e) }
func (e *Set) Accept(v ExprVisitor) value.Value      { return v.VisitSetExpr(e) }
func (e *Super) Accept(v ExprVisitor) value.Value    { return v.VisitSuperExpr(e) }
func (e *This) Accept(v ExprVisitor) value.Value     { return v.VisitThisExpr(e) }
func (e *Unary) Accept(v ExprVisitor) value.Value    { return v.VisitUnaryExpr(e) }
func (e *Variable) Accept(v ExprVisitor) value.Value { return v.VisitVariableExpr(e) }
