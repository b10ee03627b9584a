// Package observability wires zap into the Elysium binaries and their gRPC middleware.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/elysium/internal/config"
)

// formatPresets maps a logging.format value to the zap preset it starts from.
var formatPresets = map[string]func() zap.Config{
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// NewLogger builds the process logger for one Elysium binary.
//
// Precondition: cfg has passed config.Validate.
// Postcondition: every entry carries component as its "component" field when
// component is non-empty.
func NewLogger(component string, cfg config.LoggingConfig) (*zap.Logger, error) {
	zc, err := loggerConfig(component, cfg)
	if err != nil {
		return nil, err
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building %s logger: %w", cfg.Format, err)
	}
	return logger, nil
}

func loggerConfig(component string, cfg config.LoggingConfig) (zap.Config, error) {
	preset, ok := formatPresets[cfg.Format]
	if !ok {
		return zap.Config{}, fmt.Errorf("logging.format %q is not one of json, console", cfg.Format)
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("logging.level %q: %w", cfg.Level, err)
	}

	zc := preset()
	zc.Level = zap.NewAtomicLevelAt(level)
	// Chronicle timestamps are read by humans in the console as often as by tooling.
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if component != "" {
		zc.InitialFields = map[string]any{"component": component}
	}
	return zc, nil
}
