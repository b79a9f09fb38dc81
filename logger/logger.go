package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Development bool
	Level       string // debug, info, warn, error; empty keeps the mode default
}

// New builds a JSON logger for production and a console logger for
// development.
func New(cfg Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if lvl := strings.TrimSpace(cfg.Level); lvl != "" {
		l, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(l)
	}
	return zc.Build()
}

// Must is New for process start-up.
func Must(cfg Config) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return l
}
