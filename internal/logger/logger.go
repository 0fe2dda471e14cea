package logger

import (
	"errors"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger. Debug mode logs at debug level to a colored
// console; otherwise JSON at info level with ISO8601 timestamps.
func New(debug bool) (*zap.Logger, error) {
	var cfg zap.Config

	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.Sampling = nil
	}

	return cfg.Build(zap.Fields(zap.String("service", "fxscout")))
}

// Must creates a logger or panics
func Must(debug bool) *zap.Logger {
	log, err := New(debug)
	if err != nil {
		panic(err)
	}
	return log
}

// Sync flushes log. Errors from syncing a terminal or pipe are ignored.
func Sync(log *zap.Logger) error {
	err := log.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EBADF) {
		return nil
	}
	return err
}
