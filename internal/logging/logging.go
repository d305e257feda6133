// Package logging builds the zap loggers used by the CLI and the graph.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name to a zap level. The boolean is false for an
// empty or unrecognized name. "off" and its aliases map to a level above
// fatal, which disables output.
func ParseLevel(raw string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zapcore.InfoLevel, false
	case "debug", "trace":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	case "off", "none", "disabled":
		return zapcore.FatalLevel + 1, true
	default:
		return zapcore.InfoLevel, false
	}
}

// New builds a JSON logger writing to stderr at the named level.
func New(level string) (*zap.Logger, error) {
	lvl, ok := ParseLevel(level)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableStacktrace = true

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewWriter builds a JSON logger writing to w at the named level.
func NewWriter(w io.Writer, level string) (*zap.Logger, error) {
	lvl, ok := ParseLevel(level)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl)), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
