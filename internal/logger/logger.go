package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger shared by every harunode component.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)

	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})

	// With returns a child logger that always carries the given fields.
	With(fields ...zap.Field) Logger

	Sync() error
}

// zapLogger embeds the base logger for the structured methods; the sugared
// twin serves the printf-style ones.
type zapLogger struct {
	*zap.Logger
	sugar *zap.SugaredLogger
}

// New builds a zap-backed logger at level (debug, info, warn, error; anything
// else means info). pretty selects the colored console encoder, otherwise
// JSON lines with ISO-8601 timestamps are written to stderr.
func New(level string, pretty bool) Logger {
	cfg := zap.NewProductionConfig()
	if pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	base, err := cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		panic(err)
	}
	return wrap(base)
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return wrap(zap.NewNop())
}

func wrap(base *zap.Logger) Logger {
	return &zapLogger{Logger: base, sugar: base.Sugar()}
}

// parseLevel accepts the four levels the config documents.
func parseLevel(lvl string) zapcore.Level {
	switch l, err := zapcore.ParseLevel(lvl); {
	case err != nil, l < zapcore.DebugLevel, l > zapcore.ErrorLevel:
		return zapcore.InfoLevel
	default:
		return l
	}
}

func (l *zapLogger) Debugf(t string, args ...interface{}) { l.sugar.Debugf(t, args...) }
func (l *zapLogger) Infof(t string, args ...interface{})  { l.sugar.Infof(t, args...) }
func (l *zapLogger) Warnf(t string, args ...interface{})  { l.sugar.Warnf(t, args...) }
func (l *zapLogger) Errorf(t string, args ...interface{}) { l.sugar.Errorf(t, args...) }
func (l *zapLogger) Fatalf(t string, args ...interface{}) { l.sugar.Fatalf(t, args...) }

func (l *zapLogger) With(fields ...zap.Field) Logger { return wrap(l.Logger.With(fields...)) }

// Field constructors, so callers never import zap.
func String(key, val string) zap.Field                 { return zap.String(key, val) }
func Strings(key string, val []string) zap.Field       { return zap.Strings(key, val) }
func Int(key string, val int) zap.Field                { return zap.Int(key, val) }
func Bool(key string, val bool) zap.Field              { return zap.Bool(key, val) }
func Time(key string, val time.Time) zap.Field         { return zap.Time(key, val) }
func Duration(key string, val time.Duration) zap.Field { return zap.Duration(key, val) }
func Error(err error) zap.Field                        { return zap.Error(err) }
