package main

import (
	"fmt"
	"os"
	"strings"

	"lox/interpreter-go/pkg/logger"
)

// parseGlobalFlags strips the logging flags from args. They may appear
// anywhere before a "--" separator.
func parseGlobalFlags(args []string) (logger.Config, []string, error) {
	cfg := logger.DefaultConfig()
	if env := os.Getenv("LOX_LOG_LEVEL"); env != "" {
		level, err := logger.ParseLevel(env)
		if err != nil {
			return cfg, nil, fmt.Errorf("LOX_LOG_LEVEL: %w", err)
		}
		cfg.Level = level
	}

	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		name, value, hasValue := strings.Cut(arg, "=")
		switch name {
		case "--log-level", "--log-format", "--log-file":
		default:
			remaining = append(remaining, arg)
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return cfg, nil, fmt.Errorf("%s expects a value", name)
			}
			value = args[i+1]
			i++
		}
		switch name {
		case "--log-level":
			level, err := logger.ParseLevel(value)
			if err != nil {
				return cfg, nil, err
			}
			cfg.Level = level
		case "--log-format":
			value = strings.ToLower(strings.TrimSpace(value))
			if value != "text" && value != "json" {
				return cfg, nil, fmt.Errorf("unknown --log-format value '%s' (expected text or json)", value)
			}
			cfg.Format = value
		case "--log-file":
			cfg.LogFile = value
		}
	}
	return cfg, remaining, nil
}
