package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	corelogger "github.com/kilianp07/rescue/core/logger"
)

var logrusLevels = map[corelogger.Level]logrus.Level{
	corelogger.DebugLevel: logrus.DebugLevel,
	corelogger.InfoLevel:  logrus.InfoLevel,
	corelogger.WarnLevel:  logrus.WarnLevel,
	corelogger.ErrorLevel: logrus.ErrorLevel,
}

// LogrusLogger implements Logger on top of sirupsen/logrus with a JSON
// formatter.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger writes JSON logs to stdout.
func NewLogrusLogger(component string, level corelogger.Level) Logger {
	return NewLogrusLoggerTo(os.Stdout, component, level)
}

// NewLogrusLoggerTo writes JSON logs to w.
func NewLogrusLoggerTo(w io.Writer, component string, level corelogger.Level) Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(w)
	l.SetLevel(logrusLevels[level])
	return &LogrusLogger{entry: l.WithField("component", component)}
}

func (l *LogrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }

func (l *LogrusLogger) Debugw(msg string, fields map[string]any) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *LogrusLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }
