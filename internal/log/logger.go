// Package log wraps slog with the component tagging and field vocabulary
// the rest of the application logs with.
package log

import (
	"log/slog"
	"os"
)

// Logger is a slog.Logger tagged with the component it belongs to. The base
// logger is kept untagged so WithComponent never stacks component attributes.
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

// Config holds logger configuration.
type Config struct {
	Level   slog.Level
	Handler slog.Handler
}

// DefaultConfig logs text to stdout at Info level.
func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo}
}

// New creates a logger from the given configuration.
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: config.Level,
		})
	}
	base := slog.New(handler)
	return &Logger{
		Logger:    base.With(FieldComponent, ComponentApp),
		base:      base,
		component: ComponentApp,
	}
}

// With returns a logger carrying extra attributes on top of the current ones.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		base:      l.base,
		component: l.component,
	}
}

// WithComponent returns a logger tagged with the given component, replacing
// the current tag rather than adding a second one.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.base.With(FieldComponent, component),
		base:      l.base,
		component: component,
	}
}

// Component returns the logger's component tag.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault routes slog's package-level calls through this logger.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}
