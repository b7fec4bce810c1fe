package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const EnvProduction = "production"

// Options selects how a service logger is built.
type Options struct {
	Service string
	// Env other than EnvProduction enables debug level and disables sampling.
	Env string
	// Level overrides the env default when set, e.g. "warn".
	Level string
	// File receives a copy of every entry. Its directory is created.
	File string
}

// New builds a JSON logger writing to stdout, tagged with service and env.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	if opts.Env != EnvProduction {
		cfg.Development = true
		cfg.Sampling = nil
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	if opts.Level != "" {
		level, err := zap.ParseAtomicLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		cfg.Level = level
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, opts.File)
	}

	cfg.InitialFields = map[string]any{
		"service": opts.Service,
		"env":     opts.Env,
	}
	return cfg.Build()
}

// Must panics on a logger construction error.
func Must(logger *zap.Logger, err error) *zap.Logger {
	if err != nil {
		panic(err)
	}
	return logger
}

type ctxKey struct{}

// Attach stores logger, extended with fields, in ctx and returns both.
// A nil logger extends whatever ctx already carries.
func Attach(ctx context.Context, logger *zap.Logger, fields ...zap.Field) (context.Context, *zap.Logger) {
	if logger == nil {
		logger = FromContext(ctx)
	}
	if len(fields) > 0 {
		logger = logger.With(fields...)
	}
	return context.WithValue(ctx, ctxKey{}, logger), logger
}

// FromContext returns the attached logger or zap.L().
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}
