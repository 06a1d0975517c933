package logger

import (
	"sync"

	"eventlog/pkg/models"
)

var defaultLogger = sync.OnceValue(func() *Logger { return New() })

// Default returns the shared process-wide logger
func Default() *Logger {
	return defaultLogger()
}

// Log records a LOG event on the default logger
func Log(opts models.Options) error { return Default().Log(opts) }

// Warn records a WARN event on the default logger
func Warn(opts models.Options) error { return Default().Warn(opts) }

// Error records an ERROR event on the default logger
func Error(opts models.Options) error { return Default().Error(opts) }

// GetLog looks up an event on the default logger
func GetLog(key string) (models.LogEvent, error) { return Default().GetLog(key) }

// GetDifference formats time(a) - time(b) on the default logger
func GetDifference(a, b string) (string, error) { return Default().GetDifference(a, b) }

// ShowGroup renders a group of the default logger
func ShowGroup(group string) error { return Default().ShowGroup(group) }

// Listen registers a listener on the default logger
func Listen(filter models.ListenerFilter, cb func(models.LogEvent)) {
	Default().Listen(filter, cb)
}

// ClearAll drops the default logger's events
func ClearAll() { Default().ClearAll() }

// SetLevel changes the default logger's console threshold
func SetLevel(sev models.Severity) { Default().SetLevel(sev) }
