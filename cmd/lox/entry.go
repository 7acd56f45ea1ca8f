package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/logger"
)

type executionMode int

const (
	modeRun executionMode = iota
	modeCheck
)

func modeCommandLabel(mode executionMode) string {
	switch mode {
	case modeCheck:
		return "lox check"
	default:
		return "lox run"
	}
}

func runEntry(args []string) int {
	return runEntryWithMode(args, modeRun)
}

func runCheck(args []string) int {
	return runEntryWithMode(args, modeCheck)
}

func runEntryWithMode(args []string, mode executionMode) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		printUsage()
		return driver.ExitUsage
	}
	program, code := loadProgram(args, mode)
	if program == nil {
		return code
	}

	pipeline := newPipeline(program.Manifest)
	if mode == modeCheck {
		for _, src := range program.Scripts() {
			if _, err := pipeline.Check(src); err != nil {
				logger.Debug("check failed", "source", src.Name, "error", err)
				return driver.ExitCode(err)
			}
			fmt.Fprintf(os.Stdout, "%s: ok\n", src.Name)
		}
		return driver.ExitOK
	}

	if err := pipeline.RunProgram(program); err != nil {
		logger.Debug("run failed", "error", err)
		return driver.ExitCode(err)
	}
	return driver.ExitOK
}

// loadProgram finds what to execute: the given script (with the nearest
// manifest's preludes and dependencies, when there is one) or the
// manifest's entry script.
func loadProgram(args []string, mode executionMode) (*driver.Program, int) {
	home, err := driver.LoxHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve LOX_HOME: %v\n", err)
		return nil, driver.ExitFailure
	}
	loader := driver.NewLoader(home)

	if len(args) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
			return nil, driver.ExitFailure
		}
		manifestPath, err := driver.FindManifest(cwd)
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				fmt.Fprintf(os.Stderr, "%s requires a script or a %s\n", modeCommandLabel(mode), driver.ManifestName)
				return nil, driver.ExitUsage
			}
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return nil, driver.ExitFailure
		}
		program, err := loader.Load(manifestPath, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return nil, driver.ExitFailure
		}
		return program, driver.ExitOK
	}

	entry, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve %s: %v\n", args[0], err)
		return nil, driver.ExitFailure
	}
	if info, err := os.Stat(entry); err != nil || info.IsDir() {
		fmt.Fprintf(os.Stderr, "%s: no such script\n", args[0])
		return nil, driver.ExitFailure
	}

	manifestPath, err := driver.FindManifest(filepath.Dir(entry))
	switch {
	case err == nil:
		program, err := loader.Load(manifestPath, entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return nil, driver.ExitFailure
		}
		return program, driver.ExitOK
	case errors.Is(err, driver.ErrManifestNotFound):
		src, err := driver.ReadSource(entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return nil, driver.ExitFailure
		}
		return &driver.Program{Entry: src}, driver.ExitOK
	default:
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil, driver.ExitFailure
	}
}

func runAST(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "lox ast requires exactly one script")
		printUsage()
		return driver.ExitUsage
	}
	src, err := driver.ReadSource(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return driver.ExitFailure
	}
	stmts, err := newPipeline(nil).Parse(src)
	if err != nil {
		return driver.ExitCode(err)
	}
	printer := ast.Printer{}
	for _, stmt := range stmts {
		fmt.Fprintln(os.Stdout, printer.Statement(stmt))
	}
	return driver.ExitOK
}

// newPipeline wires a pipeline to the process streams. The exit native
// unwinds to run, which owns the process exit.
func newPipeline(manifest *driver.Manifest) *driver.Pipeline {
	cfg := driver.PipelineConfig{
		Stdout:   os.Stdout,
		Reporter: diagnostics.NewConsole(os.Stderr, logger.Get()),
		Logger:   logger.Get(),
		Strict:   true,
		Exit:     func(int) {},
	}
	if manifest != nil {
		cfg.MaxCallDepth = manifest.Settings.MaxCallDepth
		cfg.Strict = manifest.Settings.Strict
	}
	return driver.NewPipeline(cfg)
}
