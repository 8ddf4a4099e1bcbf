// Package logger provides the logging capability that is handed to the
// decoder and exporter. There is no package-level logger; callers pass one in.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// LogLevel - log level type
type LogLevel int

const (
	// LogDebug - DEBUG log level
	LogDebug LogLevel = iota

	// LogInfo - INFO log level
	LogInfo

	// LogError - ERROR log level
	LogError
)

var logLevelPrefix = map[LogLevel]string{
	LogDebug: "DEBUG",
	LogInfo:  "INFO",
	LogError: "ERROR",
}

// Logger is the logging interface used throughout omxotf
type Logger interface {
	Printf(level LogLevel, format string, a ...interface{})
	Debugf(format string, a ...interface{})
	Infof(format string, a ...interface{})
	Errorf(format string, a ...interface{})
}

// StdLogger writes leveled lines through a stdlib log.Logger
type StdLogger struct {
	logLevel LogLevel
	out      *log.Logger
}

// NewStdLogger creates a logger writing to w, dropping lines below level
func NewStdLogger(w io.Writer, level LogLevel) *StdLogger {
	return &StdLogger{
		logLevel: level,
		out:      log.New(w, "", log.LstdFlags),
	}
}

// NewStderrLogger is a shortcut for NewStdLogger(os.Stderr, level)
func NewStderrLogger(level LogLevel) *StdLogger {
	return NewStdLogger(os.Stderr, level)
}

func (l *StdLogger) Printf(level LogLevel, format string, a ...interface{}) {
	if level < l.logLevel {
		return
	}
	l.out.Println(logLevelPrefix[level] + ": " + fmt.Sprintf(format, a...))
}

func (l *StdLogger) Debugf(format string, a ...interface{}) {
	l.Printf(LogDebug, format, a...)
}

func (l *StdLogger) Infof(format string, a ...interface{}) {
	l.Printf(LogInfo, format, a...)
}

func (l *StdLogger) Errorf(format string, a ...interface{}) {
	l.Printf(LogError, format, a...)
}

// NullLogger discards everything. Used in tests and silent runs.
type NullLogger struct{}

func (l *NullLogger) Printf(level LogLevel, format string, a ...interface{}) {}
func (l *NullLogger) Debugf(format string, a ...interface{}) {}
func (l *NullLogger) Infof(format string, a ...interface{}) {}
func (l *NullLogger) Errorf(format string, a ...interface{}) {}

// OrNull returns l, or a NullLogger if l is nil
func OrNull(l Logger) Logger {
	if l == nil {
		return &NullLogger{}
	}
	return l
}
