// Command lox is the driver: it runs a script file, or without one drops
// into an interactive REPL. It wires the three static/dynamic passes
// (scan+parse, resolve, interpret) together and translates a program's
// outcome into a sysexits(3)-style process exit code, matching the
// original jlox tool's own convention.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/chzyer/readline"

	"tree_lox/ast"
	"tree_lox/interpreter"
	"tree_lox/parser"
	"tree_lox/resolver"
)

const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitNoInput  = 66
	exitIOErr    = 74
	exitSoftware = 70
)

func main() {
	if profOut, ok := os.LookupEnv("CPUPROFILE"); ok && profOut != "" {
		f, err := os.Create(profOut)
		if err != nil {
			log.Fatalf("Cannot create profile output file '%s': %v.\n", profOut, err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	switch len(os.Args) {
	case 1:
		runPrompt()
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", os.Args[0])
		os.Exit(exitUsage)
	}
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open file '%s': %v.\n", path, err)
		if os.IsNotExist(err) || os.IsPermission(err) {
			return exitNoInput
		}
		return exitIOErr
	}

	interp := interpreter.New(os.Stdout, os.Stderr)

	stmts, ok := parseAndResolve(string(source), interp)
	if !ok {
		return exitDataErr
	}

	if !interp.Interpret(stmts) {
		return exitSoftware
	}
	return exitOK
}

// runPrompt is a REPL: each line is parsed and resolved as its own
// complete program and run against one Interpreter shared across the
// session, so top-level variable and function declarations persist across
// lines the way jlox's REPL does.
func runPrompt() {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot start line editor: %v.\n", err)
		os.Exit(exitSoftware)
	}
	defer rl.Close()

	interp := interpreter.New(os.Stdout, os.Stderr)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %v.\n", err)
			os.Exit(exitIOErr)
		}

		stmts, ok := parseAndResolve(line, interp)
		if !ok {
			continue
		}
		interp.Interpret(stmts)
	}
}

// parseAndResolve runs both static passes and reports whether the source
// is free of syntax and resolution errors and safe to hand to the
// interpreter.
func parseAndResolve(source string, interp *interpreter.Interpreter) ([]ast.Stmt, bool) {
	p := parser.NewParserWithOutput(source, os.Stderr)
	stmts := p.Parse()
	if p.HadError() {
		return nil, false
	}

	resolver.New(interp, p).ResolveProgram(stmts)
	if p.HadError() {
		return nil, false
	}
	return stmts, true
}
