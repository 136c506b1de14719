package board

import (
	"log/slog"
)

// SlogLogger adapts *slog.Logger to Logger
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l, falling back to slog.Default when l is nil
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(msg string, args ...any) {
	s.l.Debug(msg, args...)
}

func (s *SlogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *SlogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}

func (s *SlogLogger) Error(msg string, args ...any) {
	s.l.Error(msg, args...)
}

// With returns a logger that always adds args
func (s *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{l: s.l.With(args...)}
}

type defLogger struct{}

func (defLogger) Debug(msg string, args ...any) {
	slog.Debug("BOARD "+msg, args...)
}

func (defLogger) Info(msg string, args ...any) {
	slog.Info("BOARD "+msg, args...)
}

func (defLogger) Warn(msg string, args ...any) {
	slog.Warn("BOARD "+msg, args...)
}

func (defLogger) Error(msg string, args ...any) {
	slog.Error("BOARD "+msg, args...)
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
