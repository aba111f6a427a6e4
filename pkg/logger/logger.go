// Package logger provides opinionated logging for the promptrelay services.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stdout, named after the owning
// component. Debug enables debug-level output; the production level is Info.
func New(name string, debug bool) *zap.Logger {
	return NewWithWriter(name, debug, os.Stdout)
}

// NewWithWriter returns a console logger writing to w. Tests use this to
// capture log output.
func NewWithWriter(name string, debug bool, w io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)

	log := zap.New(core, zap.AddCaller())
	if name != "" {
		log = log.Named(name)
	}

	return log
}
