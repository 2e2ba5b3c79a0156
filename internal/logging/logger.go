// Package logging builds the structured loggers used across commutetrack.
package logging

import (
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// secretPatterns defines attribute keys whose values are redacted. The
// directions provider key must never end up in log output.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i).*_KEY$`),
	regexp.MustCompile(`(?i).*_TOKEN$`),
	regexp.MustCompile(`(?i)^api[_-]?key$`),
	regexp.MustCompile(`(?i).*PASSWORD.*`),
}

// New creates a JSON logger at the given level. Level can be "debug", "info",
// "warn", or "error" (case-insensitive); anything else falls back to "info".
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a JSON logger with a custom writer, useful for tests.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: redactSecrets,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// NewFromConfig creates a logger from the configuration's logging section:
// format ("json" or "text"), level, and output ("stderr", "stdout", "discard",
// or a file path).
func NewFromConfig(format, level, output string) (*slog.Logger, error) {
	var writer io.Writer
	switch output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	case "discard", "/dev/null":
		writer = io.Discard
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		writer = f
	}

	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: redactSecrets,
	}

	var handler slog.Handler
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	return slog.New(handler), nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redactSecrets is a ReplaceAttr function that redacts sensitive fields.
func redactSecrets(groups []string, a slog.Attr) slog.Attr {
	for _, pattern := range secretPatterns {
		if pattern.MatchString(a.Key) {
			return slog.Attr{
				Key:   a.Key,
				Value: slog.StringValue("***REDACTED***"),
			}
		}
	}
	return a
}
