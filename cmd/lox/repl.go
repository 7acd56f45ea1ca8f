package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/logger"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

const (
	promptMain  = "> "
	promptCont  = "... "
	historyFile = ".lox_history"
)

// lineReader is satisfied by *liner.State.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

func runRepl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "lox repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return driver.ExitUsage
	}

	pipeline, code := replPipeline()
	if pipeline == nil {
		return code
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	stopWatch := watchSignals(sigc, func() {
		ln.Close()
		os.Exit(130)
	})
	defer func() {
		signal.Stop(sigc)
		stopWatch()
	}()

	fmt.Fprintf(os.Stdout, "%s (type :quit to exit)\n", cliToolVersion)
	return replLoop(pipeline, ln, os.Stdout, func(entry string) { ln.AppendHistory(entry) })
}

// watchSignals runs onSignal for the first signal received on sigc. The
// returned stop ends the watch and waits for the watching goroutine to exit.
func watchSignals(sigc <-chan os.Signal, onSignal func()) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-sigc:
			onSignal()
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}

// replPipeline preloads the nearest project's dependencies and preludes.
func replPipeline() (*driver.Pipeline, int) {
	cwd, err := os.Getwd()
	if err != nil {
		return newPipeline(nil), driver.ExitOK
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		if !errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return nil, driver.ExitFailure
		}
		return newPipeline(nil), driver.ExitOK
	}
	home, err := driver.LoxHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve LOX_HOME: %v\n", err)
		return nil, driver.ExitFailure
	}
	program, err := driver.NewLoader(home).LoadLibraries(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil, driver.ExitFailure
	}
	pipeline := newPipeline(program.Manifest)
	for _, src := range program.Preludes {
		if _, err := pipeline.Run(src); err != nil {
			return nil, driver.ExitCode(err)
		}
	}
	return pipeline, driver.ExitOK
}

// replLoop evaluates entries until EOF or :quit. Errors are reported and
// the session continues; the value of a trailing expression is echoed.
func replLoop(pipeline *driver.Pipeline, in lineReader, out io.Writer, remember func(string)) int {
	for n := 1; ; n++ {
		code, ok := readByParseProbe(in, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return driver.ExitOK
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return driver.ExitOK
			default:
				fmt.Fprintln(out, "unknown command. Type :quit to exit.")
			}
			continue
		}
		if remember != nil {
			remember(strings.ReplaceAll(code, "\n", " "))
		}

		res, err := pipeline.Run(driver.Source{Name: fmt.Sprintf("repl:%d", n), Text: code})
		if err != nil {
			var exitReq interpreter.ExitRequest
			if errors.As(err, &exitReq) {
				return exitReq.Code
			}
			logger.Debug("repl entry failed", "error", err)
			continue
		}
		if echoes(res) {
			fmt.Fprintln(out, interpreter.Stringify(res.Value))
		}
	}
}

// echoes reports whether an entry ended in an expression statement whose
// value is worth printing. nil results are not shown.
func echoes(res *driver.Result) bool {
	if len(res.Statements) == 0 || res.Value == nil {
		return false
	}
	if _, isExpr := res.Statements[len(res.Statements)-1].(*ast.ExpressionStatement); !isExpr {
		return false
	}
	_, isNil := res.Value.(runtime.NilValue)
	return !isNil
}

func readByParseProbe(in lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = in.Prompt(prompt)
		} else {
			line, err = in.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if src, complete := completeInput(b.String()); complete {
			return src, true
		}
	}
}

// completeInput decides whether src can be evaluated yet. Input that only
// lacks a trailing ';' is completed so bare expressions echo their value.
func completeInput(src string) (string, bool) {
	if strings.TrimSpace(src) == "" || strings.HasPrefix(strings.TrimSpace(src), ":") {
		return src, true
	}
	collector := &diagnostics.Collector{}
	tokens := scanner.Scan(src, collector)
	for _, msg := range collector.Messages() {
		if msg == "Unterminated string." || msg == "Unterminated block comment." {
			return "", false
		}
	}
	_, err := parser.Parse(tokens, nil)
	if err == nil || !parser.IsIncomplete(err) {
		return src, true
	}
	withSemicolon := src + ";"
	if _, err := parser.Parse(scanner.Scan(withSemicolon, nil), nil); err == nil {
		return withSemicolon, true
	}
	return "", false
}
