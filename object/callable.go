package object

import (
	"fmt"

	"tree_lox/ast"
	"tree_lox/token"
	"tree_lox/value"
)

// Interpreter is the slice of *interpreter.Interpreter that the object
// model needs in order to execute a function body. Defining it here rather
// than importing package interpreter avoids a package cycle: interpreter
// needs to construct and call Functions, and Functions need to call back
// into the interpreter's statement executor.
type Interpreter interface {
	CallFunction(fn *Function, args []value.Value) value.Value
}

// Callable is implemented by every value that can appear on the left of a
// call expression: user-defined functions, native functions, and classes
// (calling a class constructs an instance).
type Callable interface {
	value.Value
	Arity() int
	Call(interp Interpreter, args []value.Value) value.Value
}

// Function is a user-defined function or method closing over the
// environment in effect at its declaration. IsInitializer is true only for
// a class's "init" method, which always returns `this` regardless of its
// own return statements.
type Function struct {
	Declaration   *ast.FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

func NewFunction(decl *ast.FunctionStmt, closure *Environment, isInitializer bool) *Function {
	return &Function{Declaration: decl, Closure: closure, IsInitializer: isInitializer}
}

func (*Function) LoxValueMarkerFunc() {}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

func (f *Function) Arity() int { return len(f.Declaration.Params) }

func (f *Function) Call(interp Interpreter, args []value.Value) value.Value {
	return interp.CallFunction(f, args)
}

// Bind returns a copy of f whose closure is a fresh environment with `this`
// bound to instance — used so each instance's methods see their own
// receiver while sharing the same underlying declaration.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return NewFunction(f.Declaration, env, f.IsInitializer)
}

// NativeFunction wraps a Go function as a callable Lox value, for
// library-provided functions like clock().
type NativeFunction struct {
	NameStr string
	Arity_  int
	Fn      func(args []value.Value) value.Value
}

func (*NativeFunction) LoxValueMarkerFunc() {}

func (n *NativeFunction) String() string { return fmt.Sprintf("<native fn %s>", n.NameStr) }

func (n *NativeFunction) Arity() int { return n.Arity_ }

func (n *NativeFunction) Call(_ Interpreter, args []value.Value) value.Value {
	return n.Fn(args)
}

// Class is a runtime class object. Superclass is nil for a class with no
// superclass; Methods holds only methods declared directly on this class,
// so method lookup must walk the Superclass chain.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

func (*Class) LoxValueMarkerFunc() {}

func (c *Class) String() string { return c.Name }

// FindMethod looks up name on c, then on each ancestor in turn.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity is the arity of "init" if the class (or an ancestor) declares one,
// else zero — calling a class with no initializer takes no arguments.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance and, if the class (or an ancestor)
// declares an initializer, runs it bound to that instance before returning it.
func (c *Class) Call(interp Interpreter, args []value.Value) value.Value {
	instance := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		interp.CallFunction(init.Bind(instance), args)
	}
	return instance
}

// Instance is a runtime object: a class tag plus its own mutable field
// map. Fields shadow methods of the same name on Get.
type Instance struct {
	Class  *Class
	Fields map[string]value.Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]value.Value)}
}

func (*Instance) LoxValueMarkerFunc() {}

func (i *Instance) String() string { return i.Class.Name + " instance" }

// Get implements property access: an instance's own fields take priority
// over methods, and a found method is bound to this instance before being
// returned so later calls to it see `this` correctly.
func (i *Instance) Get(name token.Token) (value.Value, *RuntimeError) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if m, ok := i.Class.FindMethod(name.Lexeme); ok {
		return m.Bind(i), nil
	}
	return nil, NewRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

func (i *Instance) Set(name token.Token, v value.Value) {
	i.Fields[name.Lexeme] = v
}
