// Package logging configures the process-wide zerolog logger.
//
// Everything is written to stderr through a console writer so that command
// output on stdout stays clean for scripts and --json consumers.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	mu   sync.RWMutex
	base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// ParseLevel maps a config level name to a zerolog level. Unknown names
// return def.
func ParseLevel(s string, def zerolog.Level) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR", "CRITICAL":
		return zerolog.ErrorLevel
	default:
		return def
	}
}

// Setup replaces the process logger. A nil writer means stderr.
func Setup(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	lvl := ParseLevel(level, zerolog.InfoLevel)

	mu.Lock()
	defer mu.Unlock()
	base = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: !isTerminal(w)}).
		With().Timestamp().Logger().Level(lvl)
}

// SetLevel changes the level of the process logger without touching its sink.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(ParseLevel(level, base.GetLevel()))
}

// Level reports the current process log level.
func Level() zerolog.Level {
	mu.RLock()
	defer mu.RUnlock()
	return base.GetLevel()
}

// For returns a child logger tagged with a component name.
func For(component string) *zerolog.Logger {
	mu.RLock()
	l := base.With().Str("component", component).Logger()
	mu.RUnlock()
	return &l
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
