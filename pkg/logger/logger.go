package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bodyfat/pkg/errors"
)

var globalLogger *Logger

// Logger is a sugared zap logger that also reports errors to a Tracker.
// Tracked errors are tagged with the component set through With.
type Logger struct {
	*zap.SugaredLogger
	errorTracker errors.Tracker
	component    string
}

// New builds a logger: JSON in production, colored console elsewhere.
// An unparsable level falls back to info.
func New(level string, env string) (*Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := config.Build(
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, err
	}

	return &Logger{SugaredLogger: logger.Sugar()}, nil
}

// NewNop discards all output
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Init installs the process-wide logger returned by Get
func Init(level string, env string) error {
	logger, err := New(level, env)
	if err != nil {
		return err
	}
	globalLogger = logger
	return nil
}

// SetErrorTracker attaches tracker to the global logger.
// Children created with With before this call are not affected.
func SetErrorTracker(tracker errors.Tracker) {
	if globalLogger != nil {
		globalLogger.errorTracker = tracker
	}
}

func Get() *Logger {
	if globalLogger == nil {
		logger, _ := zap.NewDevelopment()
		globalLogger = &Logger{SugaredLogger: logger.Sugar()}
	}
	return globalLogger
}

// With returns a child logger. A "component" or "service" field becomes
// the component tag of errors sent to the tracker.
func (l *Logger) With(args ...interface{}) *Logger {
	child := &Logger{
		SugaredLogger: l.SugaredLogger.With(args...),
		errorTracker:  l.errorTracker,
		component:     l.component,
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok && (key == "component" || key == "service") {
			if name, ok := args[i+1].(string); ok {
				child.component = name
			}
		}
	}
	return child
}

func (l *Logger) Error(args ...interface{}) {
	l.SugaredLogger.Error(args...)
	l.capture(context.Background(), errors.Wrapf(errors.ErrInternal, "%v", fmt.Sprint(args...)), nil)
}

func (l *Logger) Errorf(template string, args ...interface{}) {
	l.SugaredLogger.Errorf(template, args...)
	l.capture(context.Background(), fmt.Errorf(template, args...), nil)
}

// Errorw forwards the value of an "error" field to the tracker; the message
// and the remaining string fields become tags.
func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)

	tags := map[string]string{"message": msg}
	var err error
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		switch v := keysAndValues[i+1].(type) {
		case error:
			if key == "error" {
				err = v
			}
		case string:
			tags[key] = v
		}
	}
	if err != nil {
		l.capture(context.Background(), errors.Wrap(err, msg), tags)
	}
}

// ErrorWithContext logs err with tags as fields and reports it on the hub bound to ctx
func (l *Logger) ErrorWithContext(ctx context.Context, err error, tags map[string]string) {
	args := make([]interface{}, 0, len(tags)*2+2)
	args = append(args, "error", err)
	for k, v := range tags {
		args = append(args, k, v)
	}
	l.SugaredLogger.Errorw(err.Error(), args...)
	l.capture(ctx, err, tags)
}

func (l *Logger) capture(ctx context.Context, err error, tags map[string]string) {
	if l.errorTracker == nil {
		return
	}
	merged := make(map[string]string, len(tags)+1)
	merged["component"] = "app"
	if l.component != "" {
		merged["component"] = l.component
	}
	for k, v := range tags {
		merged[k] = v
	}
	_ = l.errorTracker.CaptureError(ctx, err, merged)
}

// Sync flushes buffered entries of the global logger
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}
