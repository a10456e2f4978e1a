// Package logging provides the component loggers used across the service.
// It keeps the Fields-map call style of the handlers and repositories while
// delegating encoding and output to zap.
package logging

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields carries structured key/value pairs for a log entry.
type Fields map[string]interface{}

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// Init configures the process-wide logger. mode follows GIN_MODE:
// "release" selects JSON production output, anything else the
// development console encoder.
func Init(mode string) error {
	var cfg zap.Config
	if mode == "release" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	SetBase(l)
	return nil
}

// SetBase replaces the process-wide zap logger.
func SetBase(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries.
func Sync() error {
	return current().Sync()
}

// Logger is a named logger for one component of the service.
type Logger struct {
	component string
}

// NewLogger returns a logger that tags every entry with the component name.
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) zap() *zap.Logger {
	return current().With(zap.String("component", l.component))
}

func (l *Logger) Debug(msg string, fields ...Fields) {
	l.zap().Debug(msg, toZap(fields)...)
}

func (l *Logger) Info(msg string, fields ...Fields) {
	l.zap().Info(msg, toZap(fields)...)
}

func (l *Logger) Warn(msg string, fields ...Fields) {
	l.zap().Warn(msg, toZap(fields)...)
}

func (l *Logger) Error(msg string, fields ...Fields) {
	l.zap().Error(msg, toZap(fields)...)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...Fields) {
	l.zap().Fatal(msg, toZap(fields)...)
}

// Info logs without a component.
func Info(msg string, fields ...Fields) {
	current().Info(msg, toZap(fields)...)
}

// Error logs without a component.
func Error(msg string, fields ...Fields) {
	current().Error(msg, toZap(fields)...)
}

// Infof logs a formatted message without structured fields.
func Infof(format string, args ...interface{}) {
	current().Sugar().Infof(format, args...)
}

func toZap(fields []Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, len(fields[0]))
	for _, f := range fields {
		keys := make([]string, 0, len(f))
		for k := range f {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err, ok := f[k].(error); ok {
				out = append(out, zap.NamedError(k, err))
				continue
			}
			out = append(out, zap.Any(k, f[k]))
		}
	}
	return out
}
