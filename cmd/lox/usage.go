package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lox [global flags] [run] [file.lox]")
	fmt.Fprintln(os.Stderr, "  lox [global flags] check [file.lox]")
	fmt.Fprintln(os.Stderr, "  lox [global flags] ast <file.lox>")
	fmt.Fprintln(os.Stderr, "  lox [global flags] repl")
	fmt.Fprintln(os.Stderr, "  lox deps install")
	fmt.Fprintln(os.Stderr, "  lox deps update [dependency ...]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Global flags:")
	fmt.Fprintln(os.Stderr, "  --log-level=debug|info|warn|error   (default warn, or $LOX_LOG_LEVEL)")
	fmt.Fprintln(os.Stderr, "  --log-format=text|json")
	fmt.Fprintln(os.Stderr, "  --log-file=<path>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Without a file, run and check use the entry script named by lox.yml.")
	fmt.Fprintln(os.Stderr, "Without arguments, lox starts the REPL.")
}
