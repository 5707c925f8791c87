package object

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tree_lox/token"
	"tree_lox/value"
)

func nameTok(name string) token.Token {
	return token.Token{Kind: token.IDENTIFIER, Lexeme: name, Line: 1}
}

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", value.Int(1))

	v, err := env.Get(nameTok("x"))
	require.Nil(t, err)
	require.Equal(t, value.Int(1), v)
}

func TestEnvironmentGetUndefinedIsRuntimeError(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get(nameTok("missing"))
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestEnvironmentSearchesEnclosingScopes(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("x", value.Int(1))
	inner := NewEnvironment(outer)

	v, err := inner.Get(nameTok("x"))
	require.Nil(t, err)
	require.Equal(t, value.Int(1), v)
}

func TestEnvironmentAssignRequiresExistingBinding(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.Assign(nameTok("x"), value.Int(1))
	require.Error(t, err)

	env.Define("x", value.Int(1))
	require.Nil(t, env.Assign(nameTok("x"), value.Int(2)))

	v, _ := env.Get(nameTok("x"))
	require.Equal(t, value.Int(2), v)
}

func TestEnvironmentGetAtAndAssignAt(t *testing.T) {
	globals := NewEnvironment(nil)
	middle := NewEnvironment(globals)
	inner := NewEnvironment(middle)

	middle.Define("x", value.Int(1))
	require.Equal(t, value.Int(1), inner.GetAt(1, "x"))

	inner.AssignAt(1, "x", value.Int(9))
	require.Equal(t, value.Int(9), middle.values["x"])
}
