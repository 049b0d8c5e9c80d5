package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Interface interface {
	Debug(message interface{}, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message interface{}, args ...interface{})
	Fatal(message interface{}, args ...interface{})
	With(keysAndValues ...interface{}) Interface
}

type Logger struct {
	logger *zap.SugaredLogger
}

var _ Interface = (*Logger)(nil)

// New builds a JSON zap logger on stdout. "dev" as level switches to the
// colored console encoder at debug level.
func New(level string) *Logger {
	var cfg zap.Config

	switch strings.ToLower(level) {
	case "dev":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	}

	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}

	return &Logger{logger: l.Sugar()}
}

// NewFromZap wraps an existing zap logger, e.g. zaptest or zap.NewNop in tests.
func NewFromZap(l *zap.Logger) *Logger {
	return &Logger{logger: l.Sugar()}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Debug(message interface{}, args ...interface{}) {
	l.logger.Debugf(l.format(message), args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.logger.Infof(message, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.logger.Warnf(message, args...)
}

// Error accepts either an error or a format string as message. When message
// is an error the first arg, if it is a string, is logged as the context.
func (l *Logger) Error(message interface{}, args ...interface{}) {
	if err, ok := message.(error); ok {
		if len(args) > 0 {
			if msg, ok := args[0].(string); ok {
				l.logger.Errorw(fmt.Sprintf(msg, args[1:]...), zap.Error(err))
				return
			}
		}
		l.logger.Errorw(err.Error(), zap.Error(err))
		return
	}

	l.logger.Errorf(l.format(message), args...)
}

func (l *Logger) Fatal(message interface{}, args ...interface{}) {
	l.logger.Fatalf(l.format(message), args...)
}

func (l *Logger) With(keysAndValues ...interface{}) Interface {
	return &Logger{logger: l.logger.With(keysAndValues...)}
}

func (l *Logger) Sync() error {
	return l.logger.Sync()
}

func (l *Logger) format(message interface{}) string {
	switch m := message.(type) {
	case error:
		return m.Error()
	case string:
		return m
	default:
		return fmt.Sprintf("%v", m)
	}
}
