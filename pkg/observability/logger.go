// Package observability provides structured logging and health checks.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	sharedApplication "github.com/Miiduoa/tired-sub002/internal/shared/application"
)

// LogFormat specifies the output format for logs.
type LogFormat string

const (
	// LogFormatText outputs human-readable text logs.
	LogFormatText LogFormat = "text"
	// LogFormatJSON outputs JSON-structured logs for production.
	LogFormatJSON LogFormat = "json"
)

// CorrelationIDKey is the log attribute carrying the correlation id.
const CorrelationIDKey = "correlation_id"

// LogConfig configures the logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string
	// Leveler overrides Level when set, so callers can change the level
	// after the logger is built.
	Leveler slog.Leveler
	// Format specifies the output format (text or json).
	Format LogFormat
	// Output is the writer for logs. Defaults to os.Stderr.
	Output io.Writer
	// Service is included in all log entries when set.
	Service string
}

// DefaultLogConfig returns the settings used by the command line.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: LogFormatText,
		Output: os.Stderr,
	}
}

// ProductionLogConfig returns the settings used by long running services.
func ProductionLogConfig(service string) LogConfig {
	return LogConfig{
		Level:   "info",
		Format:  LogFormatJSON,
		Output:  os.Stdout,
		Service: service,
	}
}

// NewLogger creates a structured logger. Records logged with a context
// carry its correlation id.
func NewLogger(cfg LogConfig) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	var level slog.Leveler = ParseLevel(cfg.Level)
	if cfg.Leveler != nil {
		level = cfg.Leveler
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}
	if cfg.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", cfg.Service)})
	}
	return slog.New(&correlationHandler{handler: handler})
}

// ParseLevel maps a level name to slog. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// correlationHandler adds the correlation id found in the record's context.
type correlationHandler struct {
	handler slog.Handler
}

func (h *correlationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *correlationHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id, ok := sharedApplication.CorrelationIDFromContext(ctx); ok {
			r.AddAttrs(slog.String(CorrelationIDKey, id.String()))
		}
	}
	return h.handler.Handle(ctx, r)
}

func (h *correlationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &correlationHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *correlationHandler) WithGroup(name string) slog.Handler {
	return &correlationHandler{handler: h.handler.WithGroup(name)}
}
