// Package logging builds the structured loggers used across snooker-vision.
//
// Everything logs to stderr. Stdout belongs to the MCP protocol stream and to
// the JSON printed by the detect command, so nothing else may write there.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel names the environment variable read by FromEnv.
const EnvLevel = "SNOOKER_VISION_LOG_LEVEL"

// ParseLevel maps a level name to a zap level. The empty string means info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a console logger on stderr at the given level.
func New(level zapcore.Level) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core, zap.AddCaller()).Sugar()
}

// FromEnv builds a logger whose level comes from SNOOKER_VISION_LOG_LEVEL.
// An unrecognized value falls back to info and is reported once as a warning.
func FromEnv() *zap.SugaredLogger {
	raw := os.Getenv(EnvLevel)
	level, err := ParseLevel(raw)
	logger := New(level)
	if err != nil {
		logger.Warnw("ignoring log level", "env", EnvLevel, "error", err)
	}
	return logger
}

// Nop returns a logger that discards everything. Components accept a nil
// logger and substitute this.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// OrNop returns logger, or a no-op logger when logger is nil.
func OrNop(logger *zap.SugaredLogger) *zap.SugaredLogger {
	if logger == nil {
		return Nop()
	}
	return logger
}
