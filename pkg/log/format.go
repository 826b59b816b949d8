package log

import "fmt"

// Printf-style helpers for callers porting message-oriented code.
// Prefer structured fields where practical; these format eagerly.

// Debugf logs a formatted debug-level message.
func Debugf(l Logger, format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted info-level message.
func Infof(l Logger, format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning-level message.
func Warnf(l Logger, format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error-level message.
func Errorf(l Logger, format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
