package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the small structured-logging surface the pipeline uses. Keeping
// it an interface lets tests swap in a no-op without touching zap.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Sync() error
}

type zapLogger struct {
	log *zap.SugaredLogger
}

// New builds a production zap logger at the given level. Unknown levels fall
// back to info.
func New(level string) Logger {
	cfg := zap.NewProductionConfig()

	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return &zapLogger{log: log.Sugar()}
}

func (l *zapLogger) Debug(msg string, fields ...interface{}) { l.log.Debugw(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...interface{})  { l.log.Infow(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...interface{})  { l.log.Warnw(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...interface{}) { l.log.Errorw(msg, fields...) }
func (l *zapLogger) Sync() error                             { return l.log.Sync() }

type nopLogger struct{}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Sync() error                  { return nil }
