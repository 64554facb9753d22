// Package logging builds the zap logger used across the simulator.
package logging

import (
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level      string   `yaml:"level" json:"level"`             // debug, info, warn, error
	Format     string   `yaml:"format" json:"format"`           // json or console
	Outputs    []string `yaml:"outputs" json:"outputs"`         // stderr, stdout, file
	OutputFile string   `yaml:"output_file,omitempty" json:"output_file,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Format:  "console",
		Outputs: []string{"stderr"},
	}
}

func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}
	if len(c.Outputs) == 0 {
		return fmt.Errorf("log.outputs must not be empty")
	}
	for _, o := range c.Outputs {
		switch o {
		case "stdout", "stderr":
		case "file":
			if c.OutputFile == "" {
				return fmt.Errorf("log.output_file required for file output")
			}
		default:
			return fmt.Errorf("unknown log output %q", o)
		}
	}
	return nil
}

// New builds a logger teeing to every configured output. The returned
// cleanup closes any opened file.
func New(cfg Config) (*zap.Logger, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	level, _ := zapcore.ParseLevel(cfg.Level)

	var encCfg zapcore.EncoderConfig
	if cfg.Format == "console" {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encCfg = zap.NewProductionEncoderConfig()
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	encoder := func() zapcore.Encoder {
		if cfg.Format == "console" {
			return zapcore.NewConsoleEncoder(encCfg)
		}
		return zapcore.NewJSONEncoder(encCfg)
	}

	var cores []zapcore.Core
	cleanup := func() error { return nil }

	if slices.Contains(cfg.Outputs, "stdout") {
		cores = append(cores, zapcore.NewCore(encoder(), zapcore.Lock(os.Stdout), level))
	}
	if slices.Contains(cfg.Outputs, "stderr") {
		cores = append(cores, zapcore.NewCore(encoder(), zapcore.Lock(os.Stderr), level))
	}
	if slices.Contains(cfg.Outputs, "file") {
		f, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		// Files always get JSON so they stay machine readable.
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(f), level))
		cleanup = f.Close
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, cleanup, nil
}
