// Package logger provides leveled, timestamped text logging on top of the
// standard log package. A Logger is built explicitly and handed to whatever
// needs it; the package-level Infof uses a lazily created stdout default and
// is meant for CLI glue only.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Lines read "2006/01/02 15:04:05 LEVEL: message".
const flags = log.Ldate | log.Ltime | log.Lmsgprefix

// Logger writes INFO, WARN, ERROR and CRITICAL lines to a single writer.
type Logger struct {
	InfoLog     *log.Logger
	WarnLog     *log.Logger
	ErrorLog    *log.Logger
	CriticalLog *log.Logger

	prefix string
	file   *os.File
}

// New creates a Logger that writes every level to w.
func New(w io.Writer) *Logger {
	return &Logger{
		InfoLog:     log.New(w, "INFO: ", flags),
		WarnLog:     log.New(w, "WARN: ", flags),
		ErrorLog:    log.New(w, "ERROR: ", flags),
		CriticalLog: log.New(w, "CRITICAL: ", flags),
	}
}

// NewFile creates a Logger with a file output and console output.
func NewFile(filename string) (*Logger, error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", filename, err)
	}
	l := New(io.MultiWriter(os.Stdout, f))
	l.file = f
	return l, nil
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

// With returns a copy of l that prepends "[prefix] " to each message.
// The copy shares the underlying writers and does not own the log file.
func (l *Logger) With(prefix string) *Logger {
	c := *l
	c.file = nil
	if l.prefix != "" {
		c.prefix = l.prefix + " " + "[" + prefix + "]"
	} else {
		c.prefix = "[" + prefix + "]"
	}
	return &c
}

func (l *Logger) output(target *log.Logger, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if l.prefix != "" {
		msg = l.prefix + " " + msg
	}
	_ = target.Output(3, msg)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.output(l.InfoLog, format, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.output(l.WarnLog, format, v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.output(l.ErrorLog, format, v...)
}

func (l *Logger) Criticalf(format string, v ...interface{}) {
	l.output(l.CriticalLog, format, v...)
}

// Close releases the log file opened by NewFile, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
)

// Default returns the process-wide stdout logger.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(os.Stdout)
	})
	return defaultLogger
}

// Infof logs to the default logger, for callers without a Logger of their own.
func Infof(format string, v ...interface{}) {
	Default().output(Default().InfoLog, format, v...)
}
