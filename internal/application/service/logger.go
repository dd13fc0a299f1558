package service

import "time"

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Clock returns the current time
type Clock func() time.Time

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
