package calculation

import (
	"github.com/rs/zerolog"
)

// Logger is a minimal logging interface for the calculation engine.
// Implementations should be fast; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// ZerologLogger adapts a zerolog.Logger to Logger.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger wraps zl. The component field tags every line.
func NewZerologLogger(zl zerolog.Logger) ZerologLogger {
	return ZerologLogger{zl: zl.With().Str("component", "calculation").Logger()}
}

func (l ZerologLogger) Debugf(format string, args ...any) { l.zl.Debug().Msgf(format, args...) }
func (l ZerologLogger) Infof(format string, args ...any)  { l.zl.Info().Msgf(format, args...) }
func (l ZerologLogger) Warnf(format string, args ...any)  { l.zl.Warn().Msgf(format, args...) }
func (l ZerologLogger) Errorf(format string, args ...any) { l.zl.Error().Msgf(format, args...) }
