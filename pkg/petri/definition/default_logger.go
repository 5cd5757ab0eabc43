// Package definition holds the concrete, swappable-by-the-caller
// implementations the rest of petri depends on only through interfaces.
package definition

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/diogofriggo/petri/pkg/petri/types"
)

// DefaultLogger is the logger used when the caller does not provide its
// own implementation. It backs types.Logger with logrus.
type DefaultLogger struct {
	entry *logrus.Entry
}

// NewDefaultLogger builds a DefaultLogger writing to the given file,
// named <node>.log.
func NewDefaultLogger(node string, out *os.File) *DefaultLogger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	return &DefaultLogger{
		entry: logger.WithField("node", node),
	}
}

func (l *DefaultLogger) Info(v ...interface{})                 { l.entry.Info(v...) }
func (l *DefaultLogger) Infof(format string, v ...interface{}) { l.entry.Infof(format, v...) }
func (l *DefaultLogger) Warn(v ...interface{})                 { l.entry.Warn(v...) }
func (l *DefaultLogger) Warnf(format string, v ...interface{}) { l.entry.Warnf(format, v...) }
func (l *DefaultLogger) Error(v ...interface{})                { l.entry.Error(v...) }
func (l *DefaultLogger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

func (l *DefaultLogger) Debug(v ...interface{}) {
	l.entry.Debug(v...)
}

func (l *DefaultLogger) Debugf(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

// ToggleDebug enables or disables Debug/Debugf output, returning the
// new state.
func (l *DefaultLogger) ToggleDebug(value bool) bool {
	if value {
		l.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		l.entry.Logger.SetLevel(logrus.InfoLevel)
	}
	return value
}

func (l *DefaultLogger) Fatal(v ...interface{})                 { l.entry.Fatal(v...) }
func (l *DefaultLogger) Fatalf(format string, v ...interface{}) { l.entry.Fatalf(format, v...) }
func (l *DefaultLogger) Panic(v ...interface{})                 { l.entry.Panic(v...) }
func (l *DefaultLogger) Panicf(format string, v ...interface{}) { l.entry.Panicf(format, v...) }

// WithFields returns a derived Logger stamping every subsequent record
// with the given fields, used by the engine to attach the current clock
// to each line.
func (l *DefaultLogger) WithFields(fields map[string]interface{}) types.Logger {
	return &DefaultLogger{entry: l.entry.WithFields(fields)}
}
