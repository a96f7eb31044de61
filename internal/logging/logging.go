// Package logging builds the zap logger shared by the CLI and the server.
package logging

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrFormat indicates an encoder name other than "console" or "json".
var ErrFormat = errors.New("unknown log format")

// New builds a logger writing to stderr at level ("debug", "info", "warn",
// "error") with the "console" or "json" encoder.
func New(level, format string) (*zap.Logger, error) {
	cfg, err := config(level, format)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}
	return logger, nil
}

// NewWriter is New writing to w instead of stderr.
func NewWriter(w io.Writer, level, format string) (*zap.Logger, error) {
	cfg, err := config(level, format)
	if err != nil {
		return nil, err
	}
	var enc zapcore.Encoder
	if cfg.Encoding == "json" {
		enc = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	} else {
		enc = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), cfg.Level)), nil
}

func config(level, format string) (zap.Config, error) {
	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Development = false
		cfg.DisableStacktrace = true
	default:
		return zap.Config{}, fmt.Errorf("logging: %w: %q", ErrFormat, format)
	}

	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return zap.Config{}, fmt.Errorf("logging: level %q: %w", level, err)
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	return cfg, nil
}
