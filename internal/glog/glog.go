// Package glog is mdbxgraph's ambient leveled logger. It mirrors the
// call-site shape of the teacher's own logging package (log.New(), a
// package-level log.Root()) but is backed by logrus rather than erigon's
// own log package, which this repository has no reason to vendor.
package glog

import (
	"github.com/sirupsen/logrus"
)

// Logger is a leveled logger carrying a fixed set of structured fields.
type Logger struct {
	entry *logrus.Entry
}

var root = New()

// Root returns the package-wide default logger.
func Root() *Logger { return root }

// New builds a Logger with the given alternating key/value fields attached
// to every subsequent log line, the way log.New("component", "x") reads at
// erigon call sites.
func New(fields ...any) *Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	return &Logger{entry: l.WithFields(toFields(fields))}
}

// With returns a child Logger with additional fields merged in.
func (l *Logger) With(fields ...any) *Logger {
	return &Logger{entry: l.entry.WithFields(toFields(fields))}
}

func (l *Logger) Debug(msg string, fields ...any) {
	l.withFields(fields).Debug(msg)
}

func (l *Logger) Info(msg string, fields ...any) {
	l.withFields(fields).Info(msg)
}

func (l *Logger) Warn(msg string, fields ...any) {
	l.withFields(fields).Warn(msg)
}

func (l *Logger) Error(msg string, fields ...any) {
	l.withFields(fields).Error(msg)
}

func (l *Logger) withFields(fields []any) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	return l.entry.WithFields(toFields(fields))
}

func toFields(fields []any) logrus.Fields {
	f := make(logrus.Fields, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		f[key] = fields[i+1]
	}
	return f
}
