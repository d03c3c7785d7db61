// Package logger provides structured logging for the QuickPass CLI.
// Warnings are always emitted; debug and info messages are printed only
// when verbose mode is enabled via the --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	format            = FormatConsole
	log               = build()
)

// build creates the logger for the current settings (caller must hold lock).
func build() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if format == FormatJSON {
		return zerolog.New(output).With().Timestamp().Logger().Level(level)
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}).With().Timestamp().Logger().Level(level)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr; nil restores the default. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
	log = build()
}

// SetFormat selects console or JSON output. Unknown formats fall back to console.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	if f != FormatJSON {
		f = FormatConsole
	}
	format = f
	log = build()
}

// L returns the underlying zerolog logger for structured fields.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	L().Debug().Msgf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	L().Debug().Str("section", name).Msg(fmt.Sprintf("=== %s ===", name))
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	L().Info().Msgf(format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	L().Warn().Msgf(format, args...)
}
