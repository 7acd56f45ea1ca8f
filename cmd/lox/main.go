package main

import (
	"fmt"
	"os"

	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/logger"
)

const cliToolVersion = "lox-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logCfg, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		return driver.ExitUsage
	}
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logging: %v\n", err)
		return driver.ExitUsage
	}
	defer logger.Close()

	if len(remaining) == 0 {
		return runRepl(nil)
	}

	switch remaining[0] {
	case "--help", "-h", "help":
		printUsage()
		return driver.ExitOK
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return driver.ExitOK
	case "run":
		return runEntry(remaining[1:])
	case "check":
		return runCheck(remaining[1:])
	case "ast":
		return runAST(remaining[1:])
	case "repl":
		return runRepl(remaining[1:])
	case "deps":
		return runDeps(remaining[1:])
	default:
		if len(remaining[0]) > 0 && remaining[0][0] == '-' {
			fmt.Fprintf(os.Stderr, "unknown flag %s\n", remaining[0])
			printUsage()
			return driver.ExitUsage
		}
		return runEntry(remaining)
	}
}
