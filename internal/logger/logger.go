// Package logger configures logrus for adminkit tools and carries run-scoped
// loggers through contexts.
package logger

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Type for the context keys
type contextKeyLoggerType struct{}

var contextKeyLogger = &contextKeyLoggerType{}

// runIDLoggerKey is the field every run-scoped log line carries.
const runIDLoggerKey = "run"

// Init sets up the text formatter with full timestamps and the given level.
func Init(level logrus.Level) {
	formatter := new(logrus.TextFormatter)
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.FullTimestamp = true
	logrus.SetFormatter(formatter)
	logrus.SetLevel(level)
}

// ParseLevel parses a level name, falling back to info for the empty string.
func ParseLevel(name string) (logrus.Level, error) {
	if name == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(name)
}

// Default returns a logger without a run ID.
func Default() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

// WithRun returns a context carrying a logger with a new run ID, unless the
// context already carries one.
func WithRun(ctx context.Context) (context.Context, *logrus.Entry) {
	if ctx == nil {
		ctx = context.Background()
	} else if rlog := fromContext(ctx); rlog != nil {
		return ctx, rlog
	}
	rlog := logrus.WithField(runIDLoggerKey, uuid.NewString())
	return context.WithValue(ctx, contextKeyLogger, rlog), rlog
}

// ContextWithLogger returns a context carrying rlog.
func ContextWithLogger(ctx context.Context, rlog *logrus.Entry) context.Context {
	return context.WithValue(ctx, contextKeyLogger, rlog)
}

// FromContext returns the logger of the context, or the default logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if rlog := fromContext(ctx); rlog != nil {
		return rlog
	}
	return Default()
}

// RunID returns the run ID of the context logger, or the empty string.
func RunID(ctx context.Context) string {
	rlog := fromContext(ctx)
	if rlog == nil {
		return ""
	}
	id, _ := rlog.Data[runIDLoggerKey].(string)
	return id
}

func fromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return nil
	}
	rlog, _ := ctx.Value(contextKeyLogger).(*logrus.Entry)
	return rlog
}
