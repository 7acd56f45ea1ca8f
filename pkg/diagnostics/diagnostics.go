// Package diagnostics provides the reporting sink shared by the scanner,
// parser, resolver and interpreter. Reporting never halts the pipeline; the
// host decides what to do with the accumulated flags.
package diagnostics

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"lox/interpreter-go/pkg/token"
)

// Phase identifies the pipeline stage that produced a diagnostic.
type Phase string

const (
	PhaseScan    Phase = "scan"
	PhaseParse   Phase = "parse"
	PhaseResolve Phase = "resolve"
	PhaseRuntime Phase = "runtime"
)

// Reporter is the diagnostic sink. Report carries static (compile-time)
// diagnostics; RuntimeError carries evaluation failures.
type Reporter interface {
	Report(line int, where, message string)
	RuntimeError(tok token.Token, message string)
}

// Diagnostic is a single recorded report.
type Diagnostic struct {
	Runtime bool
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	if d.Runtime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Where renders the location fragment used in static diagnostics.
func Where(tok token.Token) string {
	if tok.Kind == token.EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", tok.Lexeme)
}

// Console writes diagnostics to a writer (normally stderr) and remembers
// whether any static or runtime error has been seen.
type Console struct {
	mu              sync.Mutex
	out             io.Writer
	logger          *slog.Logger
	hadError        bool
	hadRuntimeError bool
}

// NewConsole creates a console reporter. logger may be nil.
func NewConsole(out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Console{out: out, logger: logger}
}

func (c *Console) Report(line int, where, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hadError = true
	d := Diagnostic{Line: line, Where: where, Message: message}
	fmt.Fprintln(c.out, d.String())
	c.logger.Debug("diagnostic", "line", line, "message", message)
}

func (c *Console) RuntimeError(tok token.Token, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hadRuntimeError = true
	d := Diagnostic{Runtime: true, Line: tok.Line, Message: message}
	fmt.Fprintln(c.out, d.String())
	c.logger.Debug("runtime error", "line", tok.Line, "token", tok.Lexeme, "message", message)
}

// HadError reports whether a static diagnostic was emitted.
func (c *Console) HadError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hadError
}

// HadRuntimeError reports whether a runtime diagnostic was emitted.
func (c *Console) HadRuntimeError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hadRuntimeError
}

// Reset clears both flags.
func (c *Console) Reset() {
	c.mu.Lock()
	c.hadError = false
	c.hadRuntimeError = false
	c.mu.Unlock()
}

// Collector records diagnostics in memory.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Report(line int, where, message string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Line: line, Where: where, Message: message})
}

func (c *Collector) RuntimeError(tok token.Token, message string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Runtime: true, Line: tok.Line, Message: message})
}

func (c *Collector) HadError() bool {
	for _, d := range c.Diagnostics {
		if !d.Runtime {
			return true
		}
	}
	return false
}

func (c *Collector) HadRuntimeError() bool {
	for _, d := range c.Diagnostics {
		if d.Runtime {
			return true
		}
	}
	return false
}

// Messages returns every recorded message in order.
func (c *Collector) Messages() []string {
	out := make([]string, 0, len(c.Diagnostics))
	for _, d := range c.Diagnostics {
		out = append(out, d.Message)
	}
	return out
}

func (c *Collector) String() string {
	lines := make([]string, 0, len(c.Diagnostics))
	for _, d := range c.Diagnostics {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

// Discard drops every report.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(int, string, string)       {}
func (discard) RuntimeError(token.Token, string) {}
