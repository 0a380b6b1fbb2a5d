// Package log provides the leveled text sink the emulator logs through.
// The driver reports a fatal machine state through it at error level;
// configuration problems are returned as errors instead, and peripheral
// warnings (locked VRAM/OAM accesses) are not logged. The core never
// writes to stdout/stderr directly; it always goes through a Logger so
// that a host front end can redirect, filter or silence it.
package log

import "github.com/sirupsen/logrus"

// Logger is the leveled text sink the core logs through. It exposes
// three levels: Info, Error and Debug.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// logrusLogger adapts a *logrus.Logger to the Logger interface.
type logrusLogger struct {
	l *logrus.Logger
}

// New returns a Logger backed by logrus, configured for plain, undecorated
// text output suitable for a terminal or a redirected file.
func New() Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
	}
	return &logrusLogger{l: l}
}

func (g *logrusLogger) Infof(format string, args ...interface{})  { g.l.Infof(format, args...) }
func (g *logrusLogger) Errorf(format string, args ...interface{}) { g.l.Errorf(format, args...) }
func (g *logrusLogger) Debugf(format string, args ...interface{}) { g.l.Debugf(format, args...) }

// nullLogger discards everything. Used by tests and by hosts that don't
// want any log output.
type nullLogger struct{}

// NewNull returns a Logger that discards everything written to it.
func NewNull() Logger {
	return nullLogger{}
}

func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}
func (nullLogger) Debugf(string, ...interface{}) {}
