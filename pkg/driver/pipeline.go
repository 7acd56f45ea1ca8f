package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

// Exit codes used by the lox command.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 64
	ExitStatic  = 65
	ExitRuntime = 70
)

// StageError reports which pipeline stage stopped a script.
type StageError struct {
	Phase  diagnostics.Phase
	Source string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Source, e.Phase, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// errStaticDiagnostics stands in when the scanner reported problems but no
// later stage produced an error value.
var errStaticDiagnostics = errors.New("static diagnostics reported")

// ExitCode maps a pipeline error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitReq interpreter.ExitRequest
	if errors.As(err, &exitReq) {
		return exitReq.Code
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		if stageErr.Phase == diagnostics.PhaseRuntime {
			return ExitRuntime
		}
		return ExitStatic
	}
	return ExitFailure
}

// PipelineConfig configures a Pipeline. Zero values pick defaults.
type PipelineConfig struct {
	Stdout       io.Writer
	Reporter     diagnostics.Reporter
	Logger       *slog.Logger
	MaxCallDepth int
	// Strict refuses to interpret after resolution errors.
	Strict       bool
	Exit         func(int)
}

// Result is the outcome of running one script.
type Result struct {
	Statements []ast.Statement
	Value      runtime.Value
}

// Pipeline runs scripts through scan, parse, resolve and interpret against
// one persistent interpreter, so globals carry over between scripts.
type Pipeline struct {
	interp   *interpreter.Interpreter
	resolver *resolver.Resolver
	gate     *gate
	logger   *slog.Logger
	strict   bool
}

// NewPipeline builds a pipeline and its interpreter.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Reporter == nil {
		cfg.Reporter = diagnostics.NewConsole(os.Stderr, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	g := &gate{Reporter: cfg.Reporter}
	opts := []interpreter.Option{
		interpreter.WithStdout(cfg.Stdout),
		interpreter.WithReporter(g),
		interpreter.WithLogger(cfg.Logger),
		interpreter.WithMaxCallDepth(cfg.MaxCallDepth),
	}
	if cfg.Exit != nil {
		opts = append(opts, interpreter.WithExit(cfg.Exit))
	}
	interp := interpreter.New(opts...)
	return &Pipeline{
		interp:   interp,
		resolver: resolver.New(interp, g),
		gate:     g,
		logger:   cfg.Logger,
		strict:   cfg.Strict,
	}
}

// Interpreter exposes the underlying interpreter.
func (p *Pipeline) Interpreter() *interpreter.Interpreter {
	return p.interp
}

// Parse scans and parses src, reporting diagnostics.
func (p *Pipeline) Parse(src Source) ([]ast.Statement, error) {
	p.gate.reset()
	start := time.Now()
	tokens := scanner.Scan(src.Text, p.gate)
	p.logger.Debug("scanned", "source", src.Name, "tokens", len(tokens), "duration", time.Since(start).String())

	start = time.Now()
	stmts, err := parser.Parse(tokens, p.gate)
	p.logger.Debug("parsed", "source", src.Name, "statements", len(stmts), "duration", time.Since(start).String())
	if err != nil {
		return nil, &StageError{Phase: diagnostics.PhaseParse, Source: src.Name, Err: err}
	}
	if p.gate.static > 0 {
		return nil, &StageError{Phase: diagnostics.PhaseScan, Source: src.Name, Err: errStaticDiagnostics}
	}
	return stmts, nil
}

// Check parses and resolves src without running it.
func (p *Pipeline) Check(src Source) ([]ast.Statement, error) {
	stmts, err := p.Parse(src)
	if err != nil {
		return nil, err
	}
	if err := p.resolve(src, stmts); err != nil {
		return stmts, err
	}
	return stmts, nil
}

// Run executes src. Statements of a script whose resolution failed are only
// interpreted when the pipeline is not strict, and the resolve error is still
// returned once they ran without a runtime error.
func (p *Pipeline) Run(src Source) (*Result, error) {
	stmts, err := p.Parse(src)
	if err != nil {
		return nil, err
	}
	resolveErr := p.resolve(src, stmts)
	if resolveErr != nil && p.strict {
		return &Result{Statements: stmts}, resolveErr
	}

	start := time.Now()
	val, err := p.interp.Interpret(stmts)
	p.logger.Debug("interpreted", "source", src.Name, "duration", time.Since(start).String())
	if err != nil {
		var exitReq interpreter.ExitRequest
		if errors.As(err, &exitReq) {
			return &Result{Statements: stmts}, err
		}
		return &Result{Statements: stmts}, &StageError{Phase: diagnostics.PhaseRuntime, Source: src.Name, Err: err}
	}
	return &Result{Statements: stmts, Value: val}, resolveErr
}

// RunProgram runs every script of program in order, stopping at the first
// failure. Outside strict mode a resolve error does not stop later scripts;
// the first one is returned after the rest ran.
func (p *Pipeline) RunProgram(program *Program) error {
	var resolveErr error
	for _, src := range program.Scripts() {
		p.logger.Debug("running script", "source", src.Name, "path", src.Path)
		_, err := p.Run(src)
		if err == nil {
			continue
		}
		var stageErr *StageError
		if !p.strict && errors.As(err, &stageErr) && stageErr.Phase == diagnostics.PhaseResolve {
			if resolveErr == nil {
				resolveErr = err
			}
			continue
		}
		return err
	}
	return resolveErr
}

func (p *Pipeline) resolve(src Source, stmts []ast.Statement) error {
	start := time.Now()
	err := p.resolver.Resolve(stmts)
	p.logger.Debug("resolved", "source", src.Name, "duration", time.Since(start).String())
	if err != nil {
		return &StageError{Phase: diagnostics.PhaseResolve, Source: src.Name, Err: err}
	}
	return nil
}

// gate forwards to the configured reporter and counts static reports for
// the current script.
type gate struct {
	diagnostics.Reporter
	static int
}

func (g *gate) Report(line int, where, message string) {
	g.static++
	g.Reporter.Report(line, where, message)
}

func (g *gate) reset() {
	g.static = 0
}
