// Package telemetry wires structured logging through the CLI and into the
// solver packages, the way the ambient logger in a typical service build is
// constructed once in main and threaded through a context.
package telemetry

import (
	"context"

	"go.uber.org/zap"
)

// Config selects the logger's verbosity and encoding.
type Config struct {
	Verbose bool
	JSON    bool
}

// New builds a *zap.Logger from cfg: zap's development console encoder by
// default, or JSON when cfg.JSON is set. The logger is nil only when an
// error is returned.
func New(cfg Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.JSON {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return zapCfg.Build()
}

type contextKey struct{}

// WithLogger returns a context carrying logger, retrievable via FromContext.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or a no-op logger if
// none was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}
