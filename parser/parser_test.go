package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"tree_lox/ast"
)

func parse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	p := NewParser(source)
	stmts := p.Parse()
	require.False(t, p.HadError())
	return stmts
}

func TestParserVarDeclaration(t *testing.T) {
	stmts := parse(t, `var x = 1 + 2;`)
	require.Len(t, stmts, 1)
	v, ok := stmts[0].(*ast.Var)
	require.True(t, ok)
	require.Equal(t, "x", v.Name.Lexeme)
	_, ok = v.Initializer.(*ast.Binary)
	require.True(t, ok)
}

func TestParserIfElse(t *testing.T) {
	stmts := parse(t, `if (true) print 1; else print 2;`)
	require.Len(t, stmts, 1)
	stmt, ok := stmts[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, stmt.Then)
	require.NotNil(t, stmt.Else)
}

func TestParserForDesugarsToBlockWhile(t *testing.T) {
	stmts := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.Len(t, stmts, 1)

	outer, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, outer.Statements, 2)

	_, ok = outer.Statements[0].(*ast.Var)
	require.True(t, ok)

	whileStmt, ok := outer.Statements[1].(*ast.While)
	require.True(t, ok)

	body, ok := whileStmt.Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, body.Statements, 2)
}

func TestParserClassWithSuperclassAndMethods(t *testing.T) {
	stmts := parse(t, `
		class Animal {
			speak() { print "..."; }
		}
		class Dog < Animal {
			speak() { print "Woof"; }
		}
	`)
	require.Len(t, stmts, 2)

	dog, ok := stmts[1].(*ast.Class)
	require.True(t, ok)
	require.Equal(t, "Dog", dog.Name.Lexeme)
	require.NotNil(t, dog.Superclass)
	require.Equal(t, "Animal", dog.Superclass.Name.Lexeme)
	require.Len(t, dog.Methods, 1)
	require.Equal(t, "speak", dog.Methods[0].Name.Lexeme)
}

func TestParserAssignmentTargetMustBeVariableOrGet(t *testing.T) {
	p := NewParser(`1 + 2 = 3;`)
	p.Parse()
	require.True(t, p.HadError())
}

func TestParserGetAndSetExpr(t *testing.T) {
	stmts := parse(t, `a.b.c = 1;`)
	require.Len(t, stmts, 1)
	exprStmt, ok := stmts[0].(*ast.ExpressionStmt)
	require.True(t, ok)
	set, ok := exprStmt.Expression.(*ast.Set)
	require.True(t, ok)
	require.Equal(t, "c", set.Name.Lexeme)
	_, ok = set.Object.(*ast.Get)
	require.True(t, ok)
}

func TestParserCallWithArguments(t *testing.T) {
	stmts := parse(t, `foo(1, 2, 3);`)
	exprStmt := stmts[0].(*ast.ExpressionStmt)
	call, ok := exprStmt.Expression.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Arguments, 3)
}

func TestParserSyntaxErrorYieldsNilProgram(t *testing.T) {
	p := NewParser(`var; print 1;`)
	stmts := p.Parse()
	require.True(t, p.HadError())
	require.Nil(t, stmts)
}

func TestParserWithOutputWritesToGivenWriter(t *testing.T) {
	var errOut bytes.Buffer
	p := NewParserWithOutput(`var; print 1;`, &errOut)
	p.Parse()
	require.True(t, p.HadError())
	require.Contains(t, errOut.String(), "Error at")
}
