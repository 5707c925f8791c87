package object

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tree_lox/ast"
	"tree_lox/token"
	"tree_lox/value"
)

// fakeInterp is a minimal Interpreter stand-in for tests that only need to
// observe that CallFunction was invoked with the right receiver bound.
type fakeInterp struct {
	calledWith *Function
}

func (f *fakeInterp) CallFunction(fn *Function, args []value.Value) value.Value {
	f.calledWith = fn
	return value.Nil{}
}

func TestClassFindMethodWalksSuperclassChain(t *testing.T) {
	base := NewClass("Base", nil, map[string]*Function{
		"greet": NewFunction(&ast.FunctionStmt{Name: token.Token{Lexeme: "greet"}}, nil, false),
	})
	derived := NewClass("Derived", base, map[string]*Function{})

	m, ok := derived.FindMethod("greet")
	require.True(t, ok)
	require.Same(t, base.Methods["greet"], m)

	_, ok = derived.FindMethod("missing")
	require.False(t, ok)
}

func TestClassArityFollowsInitializer(t *testing.T) {
	noInit := NewClass("Plain", nil, map[string]*Function{})
	require.Equal(t, 0, noInit.Arity())

	initDecl := &ast.FunctionStmt{
		Name:   token.Token{Lexeme: "init"},
		Params: []token.Token{{Lexeme: "a"}, {Lexeme: "b"}},
	}
	withInit := NewClass("Sized", nil, map[string]*Function{
		"init": NewFunction(initDecl, nil, true),
	})
	require.Equal(t, 2, withInit.Arity())
}

func TestInstanceGetBindsMethodToReceiver(t *testing.T) {
	env := NewEnvironment(nil)
	fn := NewFunction(&ast.FunctionStmt{Name: token.Token{Lexeme: "greet"}}, env, false)
	class := NewClass("Greeter", nil, map[string]*Function{"greet": fn})
	instance := NewInstance(class)

	v, err := instance.Get(token.Token{Kind: token.IDENTIFIER, Lexeme: "greet"})
	require.Nil(t, err)

	bound, ok := v.(*Function)
	require.True(t, ok)
	this, err := bound.Closure.Get(token.Token{Kind: token.IDENTIFIER, Lexeme: "this"})
	require.Nil(t, err)
	require.Same(t, instance, this)
}

func TestInstanceFieldsShadowMethods(t *testing.T) {
	fn := NewFunction(&ast.FunctionStmt{Name: token.Token{Lexeme: "name"}}, NewEnvironment(nil), false)
	class := NewClass("Thing", nil, map[string]*Function{"name": fn})
	instance := NewInstance(class)
	instance.Set(token.Token{Lexeme: "name"}, value.String("shadowed"))

	v, err := instance.Get(token.Token{Kind: token.IDENTIFIER, Lexeme: "name"})
	require.Nil(t, err)
	require.Equal(t, value.String("shadowed"), v)
}

func TestInstanceGetUndefinedPropertyIsRuntimeError(t *testing.T) {
	class := NewClass("Empty", nil, map[string]*Function{})
	instance := NewInstance(class)
	_, err := instance.Get(token.Token{Kind: token.IDENTIFIER, Lexeme: "missing"})
	require.Error(t, err)
}

func TestClassCallRunsInitializerBoundToNewInstance(t *testing.T) {
	initDecl := &ast.FunctionStmt{Name: token.Token{Lexeme: "init"}}
	fn := NewFunction(initDecl, NewEnvironment(nil), true)
	class := NewClass("Widget", nil, map[string]*Function{"init": fn})

	fi := &fakeInterp{}
	result := class.Call(fi, nil)

	instance, ok := result.(*Instance)
	require.True(t, ok)
	require.NotNil(t, fi.calledWith)

	this, err := fi.calledWith.Closure.Get(token.Token{Kind: token.IDENTIFIER, Lexeme: "this"})
	require.Nil(t, err)
	require.Same(t, instance, this)
}
