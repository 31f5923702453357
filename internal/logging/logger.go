// Package logging provides a configured slog logger for libcamera-cgen.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/electwix/libcamera-cgen/internal/diagnostics"
)

// Options configures the default slog logger used by libcamera-cgen.
type Options struct {
	// Verbose toggles debug level logging when true.
	Verbose bool
	// Writer directs log output; defaults to os.Stderr when nil. Standard
	// output is reserved for the generated header.
	Writer io.Writer
}

// New constructs a slog.Logger with libcamera-cgen defaults.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// Logger is the logging surface the pipeline depends on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// SlogAdapter adapts *slog.Logger to the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// With returns a new Logger with the given attributes.
func (s *SlogAdapter) With(args ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

var _ Logger = (*SlogAdapter)(nil)

// NopLogger discards all output.
type NopLogger struct{}

// NewNopLogger creates a new NopLogger.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(_ string, _ ...any) {}
func (n *NopLogger) Info(_ string, _ ...any)  {}
func (n *NopLogger) Warn(_ string, _ ...any)  {}
func (n *NopLogger) Error(_ string, _ ...any) {}

// With returns the same NopLogger.
func (n *NopLogger) With(_ ...any) Logger {
	return n
}

var _ Logger = (*NopLogger)(nil)

// Diagnostic logs d at the level matching its severity, with its code and
// location as attributes.
func Diagnostic(l Logger, d diagnostics.Diagnostic) {
	args := make([]any, 0, 6)
	if d.Code != "" {
		args = append(args, "code", d.Code)
	}
	if d.HasLocation() {
		args = append(args, "location", fmt.Sprintf("%s:%d:%d", d.Location.Path, d.Location.Line, d.Location.Column))
	}
	if d.Source != "" {
		args = append(args, "source", d.Source)
	}

	switch d.Severity {
	case diagnostics.SeverityError:
		l.Error(d.Message, args...)
	case diagnostics.SeverityWarning:
		l.Warn(d.Message, args...)
	default:
		l.Info(d.Message, args...)
	}
}
