// Package telemetry provides the single structured logger shared by every
// component, constructed once at application wiring time (see
// cmd/pasticceria/main.go's fx.Provide graph).
//
// Adopted from the go.uber.org family already present in the teacher's
// stack (go.uber.org/fx, go.uber.org/config) for structured logging,
// matching the idiom seen across the retrieval pack's other_examples/
// files that reach for a zap.SugaredLogger rather than stdlib log. All
// log output is diagnostic only: it never touches stdout, which spec §6
// reserves entirely for protocol responses.
package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger writing to stderr at the given level name
// ("debug", "info", "warn", "error"; unrecognized values fall back to
// "info"), matching internal/config.Config.LogLevel.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	return cfg.Build()
}
