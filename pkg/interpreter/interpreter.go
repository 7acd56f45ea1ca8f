// Package interpreter evaluates resolved syntax trees.
package interpreter

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested calls before a StackOverflow error.
const DefaultMaxCallDepth = 1000

// Interpreter executes statements against a persistent global environment.
// The zero value is not usable; construct with New.
type Interpreter struct {
	globals *runtime.Environment
	locals  map[ast.NodeID]int

	stdout   io.Writer
	reporter diagnostics.Reporter
	exit     func(int)
	clock    func() time.Time
	logger   *slog.Logger

	maxCallDepth int
	callDepth    int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

func WithReporter(r diagnostics.Reporter) Option {
	return func(i *Interpreter) { i.reporter = r }
}

// WithExit replaces the process exit used by the exit native.
func WithExit(fn func(int)) Option {
	return func(i *Interpreter) { i.exit = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(i *Interpreter) { i.clock = fn }
}

func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxCallDepth = depth
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) { i.logger = logger }
}

// New returns an interpreter with the native globals installed.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		globals:      runtime.NewEnvironment(nil),
		locals:       make(map[ast.NodeID]int),
		stdout:       os.Stdout,
		reporter:     diagnostics.Discard,
		exit:         os.Exit,
		clock:        time.Now,
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	i.initGlobals()
	return i
}

// GlobalEnvironment returns the interpreter's global frame.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.globals
}

// Resolve records the scope distance for a variable-like expression.
func (i *Interpreter) Resolve(expr ast.Expression, depth int) {
	i.locals[expr.ID()] = depth
}

// Interpret runs statements in the global environment. A runtime error stops
// the remaining statements, is reported, and is returned. The result is the
// value of the last expression statement executed, or nil.
func (i *Interpreter) Interpret(stmts []ast.Statement) (runtime.Value, error) {
	var last runtime.Value = runtime.NilValue{}
	i.callDepth = 0
	for _, stmt := range stmts {
		if exprStmt, ok := stmt.(*ast.ExpressionStatement); ok {
			val, err := i.evaluate(exprStmt.Expression, i.globals)
			if err != nil {
				return nil, i.fail(err)
			}
			last = val
			continue
		}
		out, err := i.execute(stmt, i.globals)
		if err != nil {
			return nil, i.fail(err)
		}
		switch out.kind {
		case outcomeBreak:
			return nil, i.fail(newRuntimeError(InvalidControlFlow, out.keyword, "'break' must be used inside a loop."))
		case outcomeReturn:
			return nil, i.fail(newRuntimeError(InvalidControlFlow, out.keyword, "Can't return from top-level code."))
		}
	}
	return last, nil
}

func (i *Interpreter) fail(err error) error {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		i.logger.Debug("runtime error", "kind", rtErr.Kind.String(), "line", rtErr.Token.Line)
		i.reporter.RuntimeError(rtErr.Token, rtErr.Message)
	}
	return err
}
