// Package logging builds the process logger.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "CORAL_LOG_LEVEL"
	EnvFormat = "CORAL_LOG_FORMAT"
)

// New builds a logger writing to stderr.
//
// level is one of debug, info, warn or error (empty means info). format is
// "json" for production encoding; anything else gives the colored console
// encoder.
func New(level, format string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	var cfg zap.Config
	if strings.EqualFold(format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// FromEnv builds a logger from CORAL_LOG_LEVEL and CORAL_LOG_FORMAT.
func FromEnv() (*zap.Logger, error) {
	return New(os.Getenv(EnvLevel), os.Getenv(EnvFormat))
}
