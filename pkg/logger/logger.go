// Package logger provides opinionated logging capabilities for radiant
package logger

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a console logger writing to out. A nil out writes to stderr.
func NewLogger(debug bool, out io.Writer) *zap.Logger {
	if out == nil {
		out = os.Stderr
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	// Colors only make sense on a terminal
	if f, ok := out.(*os.File); ok && (f == os.Stderr || f == os.Stdout) {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Set log level
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(out),
		level,
	)

	return zap.New(core, zap.AddCaller())
}

// NewFileLogger opens (or creates) path for appending and returns a logger
// writing to it along with a close func for the underlying file.
func NewFileLogger(debug bool, path string) (*zap.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}

	return NewLogger(debug, f), f.Close, nil
}
