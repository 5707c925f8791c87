// Package interpreter implements the tree-walking evaluator: statement
// execution and expression evaluation over the resolved AST, plus the
// small amount of glue (resolution map, global environment, call-stack
// bookkeeping for error reporting) that ties the object model together.
package interpreter

import (
	"fmt"
	"io"
	"time"

	"tree_lox/ast"
	"tree_lox/object"
	"tree_lox/token"
	"tree_lox/util"
	"tree_lox/value"
)

// returnSignal is panicked by VisitReturnStmt and recovered exactly at the
// function-call boundary in CallFunction, the same non-local-exit
// discipline the teacher uses for break/continue.
type returnSignal struct {
	Value value.Value
}

// Interpreter holds all runtime state: the global scope, the current
// environment, the Resolver's name-use-to-depth map, and the stack of
// function names in effect (used only to format runtime error traces).
type Interpreter struct {
	globals     *object.Environment
	environment *object.Environment
	locals      map[ast.Expr]int

	stdout io.Writer
	stderr io.Writer

	calledFunctions []string
	errorDistance   int
}

func New(stdout, stderr io.Writer) *Interpreter {
	globals := object.NewEnvironment(nil)
	defineGlobals(globals)
	return &Interpreter{
		globals:         globals,
		environment:     globals,
		locals:          make(map[ast.Expr]int),
		stdout:          stdout,
		stderr:          stderr,
		calledFunctions: []string{"<script>"},
	}
}

func defineGlobals(globals *object.Environment) {
	globals.Define("clock", &object.NativeFunction{
		NameStr: "clock",
		Arity_:  0,
		Fn: func(args []value.Value) value.Value {
			return value.Float(float64(time.Now().UnixNano()) / 1e9)
		},
	})
}

// Resolve is called by the Resolver once per variable-use expression; it
// is never called again for that same node, so map insertion overwriting
// is not a concern in practice, but is harmless if it happened.
func (i *Interpreter) Resolve(expr ast.Expr, depth int) {
	i.locals[expr] = depth
}

// Interpret runs a fully-resolved program, recovering exactly one runtime
// error per top-level call — the error itself has already been reported
// to stderr at the point it was raised. It reports whether the run
// completed without a runtime error, so the driver can pick an exit code.
func (i *Interpreter) Interpret(statements []ast.Stmt) (ok bool) {
	ok = true
	defer func() {
		switch r := recover(); r.(type) {
		case nil:
		case *object.RuntimeError:
			ok = false
		default:
			panic(r)
		}
	}()

	for _, stmt := range statements {
		i.execute(stmt)
	}
	return ok
}

// Statement evaluators.

func (i *Interpreter) VisitBlockStmt(s *ast.Block) {
	i.executeBlock(s.Statements, object.NewEnvironment(i.environment))
}

func (i *Interpreter) VisitClassStmt(s *ast.Class) {
	var superclass *object.Class
	if s.Superclass != nil {
		sc, ok := i.evaluate(s.Superclass).(*object.Class)
		if !ok {
			i.raise(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	i.environment.Define(s.Name.Lexeme, value.Nil{})

	if s.Superclass != nil {
		i.environment = object.NewEnvironment(i.environment)
		i.environment.Define("super", superclass)
	}

	methods := make(map[string]*object.Function)
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = object.NewFunction(m, i.environment, m.Name.Lexeme == "init")
	}

	class := object.NewClass(s.Name.Lexeme, superclass, methods)

	if s.Superclass != nil {
		i.environment = i.environment.Enclosing()
	}

	i.environment.Assign(s.Name, class)
}

func (i *Interpreter) VisitExpressionStmt(s *ast.ExpressionStmt) {
	i.evaluate(s.Expression)
}

func (i *Interpreter) VisitFunctionStmt(s *ast.FunctionStmt) {
	fn := object.NewFunction(s, i.environment, false)
	i.environment.Define(s.Name.Lexeme, fn)
}

func (i *Interpreter) VisitIfStmt(s *ast.If) {
	if value.Truthy(i.evaluate(s.Condition)) {
		i.execute(s.Then)
	} else if s.Else != nil {
		i.execute(s.Else)
	}
}

func (i *Interpreter) VisitPrintStmt(s *ast.Print) {
	fmt.Fprintf(i.stdout, "%s\n", i.evaluate(s.Expression).String())
}

func (i *Interpreter) VisitReturnStmt(s *ast.Return) {
	var v value.Value = value.Nil{}
	if s.Value != nil {
		v = i.evaluate(s.Value)
	}
	panic(returnSignal{Value: v})
}

func (i *Interpreter) VisitVarStmt(s *ast.Var) {
	var v value.Value = value.Nil{}
	if s.Initializer != nil {
		v = i.evaluate(s.Initializer)
	}
	i.environment.Define(s.Name.Lexeme, v)
}

func (i *Interpreter) VisitWhileStmt(s *ast.While) {
	for value.Truthy(i.evaluate(s.Condition)) {
		i.execute(s.Body)
	}
}

// Expression evaluators.

func (i *Interpreter) VisitAssignExpr(e *ast.Assign) value.Value {
	v := i.evaluate(e.Value)
	if distance, ok := i.locals[e]; ok {
		i.environment.AssignAt(distance, e.Name.Lexeme, v)
	} else {
		i.panicIfErr(i.globals.Assign(e.Name, v))
	}
	return v
}

func (i *Interpreter) VisitBinaryExpr(e *ast.Binary) value.Value {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	checkNumbers := func() {
		if value.IsNumber(left) && value.IsNumber(right) {
			return
		}
		i.raise(e.Operator, "Operands must be numbers.")
	}

	switch e.Operator.Kind {
	case token.PLUS:
		_, leftStr := left.(value.String)
		_, rightStr := right.(value.String)
		if !((value.IsNumber(left) && value.IsNumber(right)) || (leftStr && rightStr)) {
			i.raise(e.Operator, "Operands must be two numbers or two strings.")
		}
		return value.Add(left, right)
	case token.MINUS:
		checkNumbers()
		return value.Sub(left, right)
	case token.STAR:
		checkNumbers()
		return value.Mul(left, right)
	case token.SLASH:
		checkNumbers()
		return value.Div(left, right)

	case token.GREATER:
		checkNumbers()
		return value.Boolean(value.GreaterThan(left, right))
	case token.GREATER_EQUAL:
		checkNumbers()
		return value.Boolean(value.GreaterThan(left, right) || value.Equal(left, right))
	case token.LESS:
		checkNumbers()
		return value.Boolean(value.LessThan(left, right))
	case token.LESS_EQUAL:
		checkNumbers()
		return value.Boolean(value.LessThan(left, right) || value.Equal(left, right))

	case token.EQUAL_EQUAL:
		return value.Boolean(value.Equal(left, right))
	case token.BANG_EQUAL:
		return value.Boolean(!value.Equal(left, right))

	default:
		panic("unreachable: invalid operator token in binary expression")
	}
}

func (i *Interpreter) VisitCallExpr(e *ast.Call) value.Value {
	callee := i.evaluate(e.Callee)

	args := make([]value.Value, len(e.Arguments))
	for idx, arg := range e.Arguments {
		args[idx] = i.evaluate(arg)
	}

	callable, ok := callee.(object.Callable)
	if !ok {
		i.raise(e.Paren, "Can only call functions and classes.")
	}

	if len(args) != callable.Arity() {
		i.raise(e.Paren, "Expected %d arguments but got %d.", callable.Arity(), len(args))
	}

	return callable.Call(i, args)
}

func (i *Interpreter) VisitGetExpr(e *ast.Get) value.Value {
	obj := i.evaluate(e.Object)
	instance, ok := obj.(*object.Instance)
	if !ok {
		i.raise(e.Name, "Only instances have properties.")
	}
	v, err := instance.Get(e.Name)
	i.panicIfErr(err)
	return v
}

func (i *Interpreter) VisitGroupingExpr(e *ast.Grouping) value.Value {
	return i.evaluate(e.Expression)
}

func (i *Interpreter) VisitLiteralExpr(e *ast.Literal) value.Value {
	return e.Value
}

func (i *Interpreter) VisitLogicalExpr(e *ast.Logical) value.Value {
	left := i.evaluate(e.Left)

	switch e.Operator.Kind {
	case token.OR:
		if value.Truthy(left) {
			return left
		}
	case token.AND:
		if !value.Truthy(left) {
			return left
		}
	default:
		panic("unreachable: invalid operator token in logical expression")
	}

	return i.evaluate(e.Right)
}

func (i *Interpreter) VisitSetExpr(e *ast.Set) value.Value {
	obj := i.evaluate(e.Object)
	instance, ok := obj.(*object.Instance)
	if !ok {
		i.raise(e.Name, "Only instances have fields.")
	}
	v := i.evaluate(e.Value)
	instance.Set(e.Name, v)
	return v
}

func (i *Interpreter) VisitSuperExpr(e *ast.Super) value.Value {
	distance := i.locals[e]
	superclass := i.environment.GetAt(distance, "super").(*object.Class)
	instance := i.environment.GetAt(distance-1, "this").(*object.Instance)

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		i.raise(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.Bind(instance)
}

func (i *Interpreter) VisitThisExpr(e *ast.This) value.Value {
	return i.lookUpVariable(e.Keyword, e)
}

func (i *Interpreter) VisitUnaryExpr(e *ast.Unary) value.Value {
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.BANG:
		return value.Boolean(!value.Truthy(right))
	case token.MINUS:
		if !value.IsNumber(right) {
			i.raise(e.Operator, "Operand must be a number.")
		}
		return value.Neg(right)
	default:
		panic("unreachable: invalid operator token in unary expression")
	}
}

func (i *Interpreter) VisitVariableExpr(e *ast.Variable) value.Value {
	return i.lookUpVariable(e.Name, e)
}

func (i *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) value.Value {
	if distance, ok := i.locals[expr]; ok {
		return i.environment.GetAt(distance, name.Lexeme)
	}
	v, err := i.globals.Get(name)
	i.panicIfErr(err)
	return v
}

// CallFunction executes fn's body in a fresh environment binding its
// parameters to args, recovering the non-local return panic thrown by
// VisitReturnStmt. It implements object.Interpreter so Function.Call can
// reach back into statement execution without an import cycle.
func (i *Interpreter) CallFunction(fn *object.Function, args []value.Value) (result value.Value) {
	result = value.Nil{}
	if fn.IsInitializer {
		result = fn.Closure.GetAt(0, "this")
	}

	env := object.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	i.calledFunctions = append(i.calledFunctions, fn.Declaration.Name.Lexeme)

	defer func() {
		util.Pop(&i.calledFunctions)

		switch r := recover().(type) {
		case nil:
		case returnSignal:
			if fn.IsInitializer {
				return
			}
			result = r.Value
		case *object.RuntimeError:
			i.errorDistance++
			i.printLocation(i.errorDistance, 0, *util.Last(i.calledFunctions))
			panic(r)
		default:
			panic(r)
		}
	}()

	i.executeBlock(fn.Declaration.Body, env)
	return result
}

// Utility methods.

func (i *Interpreter) execute(s ast.Stmt) {
	s.Accept(i)
}

func (i *Interpreter) evaluate(e ast.Expr) value.Value {
	return e.Accept(i)
}

func (i *Interpreter) executeBlock(statements []ast.Stmt, env *object.Environment) {
	previous := i.environment
	i.environment = env
	defer func() { i.environment = previous }()

	for _, stmt := range statements {
		i.execute(stmt)
	}
}

// Error reporting.

// raise builds a runtime error at tok, reports it, and panics with it —
// the single path by which an error originating in the interpreter itself
// (as opposed to one returned by the object package) reaches the call
// stack unwinding in CallFunction/Interpret.
func (i *Interpreter) raise(tok token.Token, format string, args ...any) {
	err := object.NewRuntimeError(tok, format, args...)
	i.report(err)
	panic(err)
}

// panicIfErr reports and panics err if it is non-nil, for errors that
// originate inside the object package (undefined variable/property) where
// object itself has no stderr to report through.
func (i *Interpreter) panicIfErr(err *object.RuntimeError) {
	if err != nil {
		i.report(err)
		panic(err)
	}
}

func (i *Interpreter) report(err *object.RuntimeError) {
	i.errorDistance = 0
	fmt.Fprintf(i.stderr, "%s\n", err.Message)
	i.printLocation(0, err.Token.Line, *util.Last(i.calledFunctions))
}

func (i *Interpreter) printLocation(distance, line int, funName string) {
	if line == 0 {
		fmt.Fprintf(i.stderr, "%5d: in %s\n", distance, funName)
		return
	}
	fmt.Fprintf(i.stderr, "%5d: [line %d] in %s\n", distance, line, funName)
}
