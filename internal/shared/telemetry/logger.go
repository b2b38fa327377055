package telemetry

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	current.Store(&l)
}

// Setup configures the process logger. format "pretty" writes human readable
// console output; anything else writes one JSON object per line.
func Setup(level, format string) {
	SetOutput(outputFor(format), level)
}

// SetOutput points the logger at w. Tests use it to capture log lines.
func SetOutput(w io.Writer, level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	current.Store(&l)
}

// Logger returns the process logger for callers that want zerolog's fluent API.
func Logger() *zerolog.Logger {
	return current.Load()
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	Logger().Info().Fields(fields).Msg(msg)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	Logger().Warn().Fields(fields).Msg(msg)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	Logger().Error().Fields(fields).Msg(msg)
}

// Debug writes a debug-level log line with the given fields.
func Debug(msg string, fields map[string]any) {
	Logger().Debug().Fields(fields).Msg(msg)
}

func outputFor(format string) io.Writer {
	if strings.EqualFold(strings.TrimSpace(format), "pretty") {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	return os.Stdout
}

func parseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || raw == "" {
		return zerolog.InfoLevel
	}
	return level
}
