// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. A richer FlowLogger adds domain helpers for recording
// model calls, tool calls and flow runs.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface used throughout genflow.
// Callers can provide their own implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// Config configures construction of a FlowLogger.
type Config struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultConfig returns a baseline text info level configuration writing to stderr.
func DefaultConfig() *Config {
	return &Config{Level: LogLevelInfo, Format: "text", Output: os.Stderr}
}

// FlowLogger wraps slog.Logger adding a component attribute and domain
// convenience methods. Cheap to copy via WithComponent.
type FlowLogger struct {
	logger    *slog.Logger
	level     LogLevel
	component string
}

// New builds a FlowLogger from a config (or defaults if nil).
func New(cfg *Config) *FlowLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return &FlowLogger{logger: slog.New(handler), level: cfg.Level, component: cfg.Component}
}

// NewSlogLogger creates a new FlowLogger with the specified level and format.
func NewSlogLogger(level LogLevel, format string, addSource bool) *FlowLogger {
	cfg := DefaultConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return New(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a copy bound to the given logical component
// (flow, model, tool, etc.).
func (l *FlowLogger) WithComponent(c string) *FlowLogger {
	nl := *l
	nl.component = c
	return &nl
}

func (l *FlowLogger) attrs(extra ...slog.Attr) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(extra)+1)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	return append(attrs, extra...)
}

func (l *FlowLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	l.logger.LogAttrs(context.Background(), level, msg, l.attrs(argsToAttrs(args)...)...)
}

func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}

// Debug logs at debug level.
func (l *FlowLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *FlowLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *FlowLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *FlowLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// LogModelCall records model call latency and success.
func (l *FlowLogger) LogModelCall(model string, dur time.Duration, success bool, err error) {
	attrs := []slog.Attr{
		slog.String("model", model),
		slog.Duration("duration", dur),
		slog.Bool("success", success),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelInfo
	msg := "Model call completed"
	if !success {
		level = slog.LevelError
		msg = "Model call failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, l.attrs(attrs...)...)
}

// LogToolCall records execution details for a tool invocation.
func (l *FlowLogger) LogToolCall(tool string, dur time.Duration, success bool, err error) {
	attrs := []slog.Attr{
		slog.String("tool_name", tool),
		slog.Duration("duration", dur),
		slog.Bool("success", success),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelInfo
	msg := "Tool execution completed"
	if !success {
		level = slog.LevelError
		msg = "Tool execution failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, l.attrs(attrs...)...)
}

// LogFlowRun records aggregate flow run metrics.
func (l *FlowLogger) LogFlowRun(flow, runID string, dur time.Duration, success bool, err error) {
	attrs := []slog.Attr{
		slog.String("flow", flow),
		slog.String("run_id", runID),
		slog.Duration("duration", dur),
		slog.Bool("success", success),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelInfo
	msg := "Flow run completed"
	if !success {
		level = slog.LevelError
		msg = "Flow run failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, l.attrs(attrs...)...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
