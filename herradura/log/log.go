// Package log is the structured logger shared by the Herradura packages and
// the command line tool. It wraps a zap SugaredLogger.
package log

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger can log at different levels with key/value context.
type Logger interface {
	Debugw(msg string, keyvals ...interface{})
	Infow(msg string, keyvals ...interface{})
	Warnw(msg string, keyvals ...interface{})
	Errorw(msg string, keyvals ...interface{})
	With(keyvals ...interface{}) Logger
	Named(name string) Logger
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) With(keyvals ...interface{}) Logger {
	return &logger{l.SugaredLogger.With(keyvals...)}
}

func (l *logger) Named(name string) Logger {
	return &logger{l.SugaredLogger.Named(name)}
}

const (
	DebugLevel = int(zapcore.DebugLevel)
	InfoLevel  = int(zapcore.InfoLevel)
	WarnLevel  = int(zapcore.WarnLevel)
	ErrorLevel = int(zapcore.ErrorLevel)
)

// DefaultLevel is the level of the logger returned by DefaultLogger.
var DefaultLevel = InfoLevel

var (
	defaultOnce sync.Once
	defaultLog  Logger
)

// DefaultLogger returns a process-wide console logger at DefaultLevel.
func DefaultLogger() Logger {
	defaultOnce.Do(func() {
		defaultLog = New(nil, DefaultLevel, false)
	})
	return defaultLog
}

// New returns a logger writing to output (stderr when nil) at the given level.
func New(output zapcore.WriteSyncer, level int, json bool) Logger {
	if output == nil {
		output = os.Stderr
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewConsoleEncoder(cfg)
	if json {
		encoder = zapcore.NewJSONEncoder(cfg)
	}
	core := zapcore.NewCore(encoder, output, zapcore.Level(level))
	return &logger{zap.New(core, zap.WithCaller(true)).Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &logger{zap.NewNop().Sugar()}
}

type ctxKey struct{}

// ToContext attaches l to ctx.
func ToContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContextOrDefault returns the logger stored in ctx, or DefaultLogger.
func FromContextOrDefault(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return DefaultLogger()
}
