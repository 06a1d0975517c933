package models

import (
	"fmt"
	"strings"
)

// Severity orders events for console filtering and listener matching.
type Severity int

// Severity levels, lowest first
const (
	LevelLog Severity = iota + 1
	LevelWarn
	LevelError
	LevelNone
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case LevelLog:
		return "log"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelNone:
		return "none"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity maps a level name (case-insensitive) to a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "log", "info":
		return LevelLog, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "none", "off":
		return LevelNone, nil
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

// DiagnosticGroup holds events the store records about its own anomalies.
const DiagnosticGroup = "@@LoggerErrors@@"

// LogEvent represents a single recorded event
type LogEvent struct {
	ID    string   `json:"id" yaml:"id"`
	Group string   `json:"group" yaml:"group"`
	Data  any      `json:"data" yaml:"data"`
	Level Severity `json:"level" yaml:"level"`
	Time  float64  `json:"time" yaml:"time"` // elapsed milliseconds
}

// Key returns the display key, "group:id" or the bare id.
func (e LogEvent) Key() string {
	if e.Group == "" {
		return e.ID
	}
	return e.Group + ":" + e.ID
}

// Options are what callers pass to Log, Warn and Error.
type Options struct {
	ID    string `json:"id"`
	Group string `json:"group,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// ListenerFilter selects events for a listener. Nil fields are unset.
type ListenerFilter struct {
	Group    *string
	MinLevel *Severity
}

// ForGroup builds a filter on group name.
func ForGroup(group string) ListenerFilter {
	return ListenerFilter{Group: &group}
}

// AtLeast builds a filter on minimum severity.
func AtLeast(level Severity) ListenerFilter {
	return ListenerFilter{MinLevel: &level}
}

// ParseKey splits "group:id" or a bare id. The first separator wins, so ids
// may contain further colons.
func ParseKey(key string) (group, id string, err error) {
	if g, i, ok := strings.Cut(key, ":"); ok {
		group, id = g, i
	} else {
		id = key
	}
	if id == "" {
		return "", "", fmt.Errorf("key %q: %w", key, ErrMalformedKey)
	}
	return group, id, nil
}

// Resolve picks the group and id for options; a group embedded in ID takes
// precedence over Options.Group.
func (o Options) Resolve() (group, id string, err error) {
	if o.ID == "" {
		return "", "", fmt.Errorf("empty id: %w", ErrMalformedKey)
	}
	group, id, err = ParseKey(o.ID)
	if err != nil {
		return "", "", err
	}
	if !strings.Contains(o.ID, ":") {
		group = o.Group
	}
	return group, id, nil
}
