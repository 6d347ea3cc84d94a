package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a configured zap.Logger. Output is JSON unless
// LOG_ENCODING=console; the level comes from LOG_LEVEL (default info).
func NewLogger() (*zap.Logger, error) {
	var config zap.Config

	if os.Getenv("LOG_ENCODING") == "console" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = "info"
	}
	var zapLevel zapcore.Level
	if err := zapLevel.Set(level); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	return config.Build()
}

// MustNewLogger creates a logger and panics if initialization fails.
func MustNewLogger() *zap.Logger {
	logger, err := NewLogger()
	if err != nil {
		panic(err)
	}
	return logger
}
