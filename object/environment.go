// Package object holds the runtime machinery the evaluator operates on
// that isn't a plain tagged value: the Environment scope chain and the
// callable/class/instance object model (see callable.go).
package object

import (
	"fmt"

	"tree_lox/token"
	"tree_lox/value"
)

// RuntimeError is a Lox runtime error: a human message plus the token whose
// source line it should be reported against. It is the only error type
// that crosses the evaluator's panic/recover boundary in interpreter.Interpret.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func NewRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// Environment is one scope frame: a name-to-Value map plus a link to the
// enclosing scope. The globals environment is the one Environment with no
// enclosing scope; its lifetime is the Interpreter's lifetime. A function's
// closure is a shared reference to the Environment in effect when the
// function was declared.
type Environment struct {
	values    map[string]value.Value
	enclosing *Environment
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]value.Value), enclosing: enclosing}
}

// Enclosing returns the scope directly containing this one, or nil for
// globals. Used when temporarily entering the "super" scope around a
// class body, which must be popped without discarding the environment
// the class's methods actually close over.
func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Define unconditionally installs name in this scope. Redefinition is
// allowed — duplicate detection is the Resolver's job for locals, and the
// Resolver never flags globals.
func (e *Environment) Define(name string, v value.Value) {
	e.values[name] = v
}

// Get searches this scope, then each enclosing scope in turn.
func (e *Environment) Get(name token.Token) (value.Value, *RuntimeError) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign writes to an existing binding found by the same search discipline
// as Get. It never creates a new binding.
func (e *Environment) Assign(name token.Token, v value.Value) *RuntimeError {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = v
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, v)
	}
	return NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// GetAt and AssignAt walk exactly distance enclosing links with no
// searching — the Resolver guarantees the binding exists at that depth.
// distance == 0 means this environment itself.
func (e *Environment) GetAt(distance int, name string) value.Value {
	return e.ancestor(distance).values[name]
}

func (e *Environment) AssignAt(distance int, name string, v value.Value) {
	e.ancestor(distance).values[name] = v
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}
