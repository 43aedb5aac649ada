// Package logrus provides a ledgercore.Logger implementation backed by logrus
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/meridianbank/ledgercore"
)

var _ ledgercore.Logger = &Wrapper{}

// Wrapper a struct that wraps the logrus.FieldLogger in order to implement ledgercore.Logger
type Wrapper struct {
	logger logrus.FieldLogger
}

// Wrap wraps a logrus.FieldLogger
func Wrap(logger logrus.FieldLogger) *Wrapper {
	return &Wrapper{logger: logger}
}

// StandardLogger returns a wrapped version of the logrus.StandardLogger()
func StandardLogger() *Wrapper {
	return Wrap(logrus.StandardLogger())
}

// Error writes a log with log level error
func (w *Wrapper) Error(msg string) {
	w.logger.Error(msg)
}

// Warn writes a log with log level warn
func (w *Wrapper) Warn(msg string) {
	w.logger.Warn(msg)
}

// Info writes a log with log level info
func (w *Wrapper) Info(msg string) {
	w.logger.Info(msg)
}

// Debug writes a log with log level debug
func (w *Wrapper) Debug(msg string) {
	w.logger.Debug(msg)
}

// WithField adds a field to the log entry
func (w *Wrapper) WithField(key string, val interface{}) ledgercore.Logger {
	return Wrap(w.logger.WithField(key, val))
}

// WithFields adds a set of fields to the log entry
func (w *Wrapper) WithFields(fields ledgercore.Fields) ledgercore.Logger {
	return Wrap(w.logger.WithFields(logrus.Fields(fields)))
}

// WithError adds an error as a single field to the log entry
func (w *Wrapper) WithError(err error) ledgercore.Logger {
	return Wrap(w.logger.WithError(err))
}
