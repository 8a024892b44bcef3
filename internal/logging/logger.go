// Package logging provides structured logging using zap
package logging

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
	mu     sync.RWMutex
)

// Config holds logging configuration
type Config struct {
	Level       string // debug, info, warn, error
	Development bool   // enables development mode (more verbose)
	JSON        bool   // output as JSON
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Development: false,
		JSON:        false,
	}
}

// Init initializes the global logger. Only the first call takes effect.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		err = initLogger(cfg)
	})
	return err
}

func initLogger(cfg Config) error {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
		if !cfg.JSON {
			zapCfg.Encoding = "console"
			zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// Logs go to stderr so command output on stdout stays pipeable.
	zapCfg.OutputPaths = []string{"stderr"}

	l, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	set(l)
	return nil
}

func set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetForTest replaces the global logger (use zap.NewNop() or zaptest) and
// returns a func restoring the previous one.
func SetForTest(l *zap.Logger) func() {
	mu.Lock()
	prev := logger
	mu.Unlock()
	set(l)
	return func() {
		if prev != nil {
			set(prev)
		}
	}
}

// InitDefault initializes with default configuration
func InitDefault() {
	mu.RLock()
	ready := logger != nil
	mu.RUnlock()
	if !ready {
		if err := Init(DefaultConfig()); err != nil {
			set(zap.NewNop())
		}
	}
}

// L returns the global logger
func L() *zap.Logger {
	InitDefault()
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes any buffered log entries
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		return logger.Sync()
	}
	return nil
}

// --- Convenience functions ---

// Debug logs a debug message with fields
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info logs an info message with fields
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn logs a warning message with fields
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error logs an error message with fields
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

// --- Field constructors for common types ---

// String creates a string field
func String(key, val string) zap.Field {
	return zap.String(key, val)
}

// Int creates an int field
func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// Int64 creates an int64 field
func Int64(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

// Bool creates a bool field
func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

// Err creates an error field
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Duration creates a duration field
func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}

// Time creates a time field
func Time(key string, val time.Time) zap.Field {
	return zap.Time(key, val)
}

// --- Writer adapter for http server ---

// WriterAdapter adapts the logger for use with http.Server.ErrorLog
type WriterAdapter struct{}

func (w WriterAdapter) Write(p []byte) (n int, err error) {
	Error(strings.TrimRight(string(p), "\n"), String("source", "http"))
	return len(p), nil
}

// NewWriterAdapter returns a writer that logs errors
func NewWriterAdapter() *WriterAdapter {
	return &WriterAdapter{}
}
