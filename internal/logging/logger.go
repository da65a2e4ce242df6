// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// VerboseEnv enables debug logging for every command when set to "1".
const VerboseEnv = "COINLY_VERBOSE"

// Verbose reports whether verbose logging was requested through the environment.
func Verbose() bool {
	return os.Getenv(VerboseEnv) == "1"
}

// ParseLevel maps a config log level onto pterm's levels. Unknown values yield info.
func ParseLevel(s string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// New builds a structured logger writing to w. A nil writer means stderr.
// Verbose mode from the environment always wins over the configured level.
func New(w io.Writer, level string) *pterm.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := ParseLevel(level)
	if Verbose() {
		lvl = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.WithWriter(w).WithLevel(lvl)
}

// Discard returns a logger that drops everything; handy for tests and library callers.
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.WithWriter(io.Discard).WithLevel(pterm.LogLevelDisabled)
}
