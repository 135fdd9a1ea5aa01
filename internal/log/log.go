// ABOUTME: Leveled logging wrapper around zerolog for playback diagnostics
// ABOUTME: Global level via SetLevel; writes to stderr so stdout stays a clean video stream

package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	root = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
)

// SetLevel sets the global log level by name (debug, info, warn, error).
func SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", name, err)
	}
	mu.Lock()
	defer mu.Unlock()
	root = root.Level(lvl)
	return nil
}

// GetLevel returns the current log level name.
func GetLevel() string {
	mu.RLock()
	defer mu.RUnlock()
	return root.GetLevel().String()
}

// SetOutput redirects the root logger. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Output(w)
}

// Component returns a named child logger for a subsystem.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.With().Str("component", name).Logger()
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	root.Debug().Msgf(format, args...)
}

// Info logs an info message if the level allows it.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	root.Info().Msgf(format, args...)
}

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	root.Warn().Msgf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	root.Error().Msgf(format, args...)
}
