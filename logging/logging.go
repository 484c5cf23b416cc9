// Package logging builds zap loggers from pipeline log options. Logger
// construction is best-effort: any failure degrades to a no-op logger so
// logging can never fail a pipeline run.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/dynabaml/types"
)

// New returns a logger honoring the given level and optional file path.
// Level off (or empty) yields a no-op logger. File sinks are opened in
// append mode by zap, so concurrent runs can share one log path.
func New(level types.LogLevel, path string) *zap.Logger {
	zl, enabled := zapLevel(level)
	if !enabled {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zl)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zap.NewNop()
		}
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// zapLevel maps the option vocabulary onto zap levels. trace has no zap
// equivalent and maps to debug.
func zapLevel(level types.LogLevel) (zapcore.Level, bool) {
	switch level {
	case types.LogError:
		return zapcore.ErrorLevel, true
	case types.LogWarn:
		return zapcore.WarnLevel, true
	case types.LogInfo:
		return zapcore.InfoLevel, true
	case types.LogDebug, types.LogTrace:
		return zapcore.DebugLevel, true
	default:
		return zapcore.InvalidLevel, false
	}
}
