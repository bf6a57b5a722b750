package core

import "log"

// Logger is the app-wide logging service. Implementations may ship errors
// to an external reporter; args may carry an error and contextual values.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// consoleLogger writes everything to a std logger. Used in DEV and tests.
type consoleLogger struct {
	std      *log.Logger
	disabled bool
}

var _ Logger = (*consoleLogger)(nil)

func NewConsoleLogger(std *log.Logger) Logger {
	return &consoleLogger{std: std}
}

func (l *consoleLogger) Enable(enabled bool) { l.disabled = !enabled }

func (l *consoleLogger) print(lvl, msg string, args []interface{}) {
	if l.disabled {
		return
	}
	l.std.Printf("%s: %s", lvl, msg)
	for _, arg := range args {
		l.std.Printf("%+v", arg)
	}
}

func (l *consoleLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG", msg, args) }
func (l *consoleLogger) Info(msg string, args ...interface{})  { l.print("INFO", msg, args) }
func (l *consoleLogger) Warn(msg string, args ...interface{})  { l.print("WARN", msg, args) }
func (l *consoleLogger) Error(msg string, args ...interface{}) { l.print("ERROR", msg, args) }

func (l *consoleLogger) Fatal(msg string, args ...interface{}) {
	l.print("FATAL", msg, args)
	l.std.Fatal(msg)
}
