// Package logging builds the zap loggers used across allergy.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Options select where and how much to log.
type Options struct {
	Level string
	// File receives the log when set. A leading ~ is expanded.
	File string
	// Writer is used when File is empty. Nil discards everything.
	Writer io.Writer
}

// Logger is a zap logger whose level can be changed after construction.
type Logger struct {
	*zap.Logger
	level  zap.AtomicLevel
	closer io.Closer
}

// ParseLevel converts a textual level. Unknown levels fall back to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a console encoded logger.
func New(opts Options) (*Logger, error) {
	l := &Logger{level: zap.NewAtomicLevelAt(ParseLevel(opts.Level))}

	var w io.Writer
	switch {
	case opts.File != "":
		path, err := homedir.Expand(opts.File)
		if err != nil {
			return nil, fmt.Errorf("logging: expand %q: %w", opts.File, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open %s: %w", path, err)
		}
		w, l.closer = f, f
	case opts.Writer != nil:
		w = opts.Writer
	default:
		l.Logger = zap.NewNop()
		return l, nil
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(w)), l.level)
	l.Logger = zap.New(core)
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// SetLevel changes the level of a running logger.
func (l *Logger) SetLevel(s string) {
	l.level.SetLevel(ParseLevel(s))
}

// Level returns the current level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// Close flushes the logger and closes its file, if any.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
