// Package console mirrors events to a console-like output.
//
// A Sink receives a style-annotated message ("%c" marks where the style
// applies), a style descriptor in CSS form and the event payload. The
// logrus-backed sink writes them as structured log lines.
package console

import (
	"strings"

	"github.com/sirupsen/logrus"

	"eventlog/pkg/models"
)

// StyleMarker prefixes the styled part of a message
const StyleMarker = "%c"

// Sink is the console collaborator, one method per severity
type Sink interface {
	Log(msg, style string, data any)
	Warn(msg, style string, data any)
	Error(msg, style string, data any)
}

// Colors is the foreground/background pair for each severity
type Colors struct {
	Log     string `mapstructure:"log" json:"log" yaml:"log"`
	LogBg   string `mapstructure:"log_bg" json:"log_bg" yaml:"log_bg"`
	Warn    string `mapstructure:"warn" json:"warn" yaml:"warn"`
	WarnBg  string `mapstructure:"warn_bg" json:"warn_bg" yaml:"warn_bg"`
	Error   string `mapstructure:"error" json:"error" yaml:"error"`
	ErrorBg string `mapstructure:"error_bg" json:"error_bg" yaml:"error_bg"`
}

// Default palette
const (
	ColorLog   = "#5677fc"
	ColorWarn  = "#ff9800"
	ColorError = "#e51c23"
	ColorFont  = "#ffffff"
)

// DefaultColors returns the stock palette
func DefaultColors() Colors {
	return Colors{
		Log:     ColorFont,
		LogBg:   ColorLog,
		Warn:    ColorFont,
		WarnBg:  ColorWarn,
		Error:   ColorFont,
		ErrorBg: ColorError,
	}
}

// Merge fills empty fields from defaults
func (c Colors) Merge(defaults Colors) Colors {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Colors{
		Log:     pick(c.Log, defaults.Log),
		LogBg:   pick(c.LogBg, defaults.LogBg),
		Warn:    pick(c.Warn, defaults.Warn),
		WarnBg:  pick(c.WarnBg, defaults.WarnBg),
		Error:   pick(c.Error, defaults.Error),
		ErrorBg: pick(c.ErrorBg, defaults.ErrorBg),
	}
}

// Style returns the CSS descriptor for a severity
func (c Colors) Style(level models.Severity) string {
	fg, bg := c.Log, c.LogBg
	switch level {
	case models.LevelWarn:
		fg, bg = c.Warn, c.WarnBg
	case models.LevelError:
		fg, bg = c.Error, c.ErrorBg
	}
	return "background-color:" + bg + ";color:" + fg
}

// Message builds the styled console line for an event, e.g.
// "%ccool:hello(1s 500ms)".
func Message(event models.LogEvent, elapsed string) string {
	return StyleMarker + event.Key() + "(" + elapsed + ")"
}

// Emit routes an event to the sink method for its severity
func Emit(sink Sink, level models.Severity, msg, style string, data any) {
	switch level {
	case models.LevelWarn:
		sink.Warn(msg, style, data)
	case models.LevelError:
		sink.Error(msg, style, data)
	default:
		sink.Log(msg, style, data)
	}
}

// LogrusSink writes console lines through a logrus logger
type LogrusSink struct {
	logger *logrus.Logger
}

// NewLogrusSink wraps a logger; nil means the logrus standard logger
func NewLogrusSink(logger *logrus.Logger) *LogrusSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusSink{logger: logger}
}

func (s *LogrusSink) entry(style string, data any) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"style": style,
		"data":  data,
	})
}

// Log writes at info level
func (s *LogrusSink) Log(msg, style string, data any) {
	s.entry(style, data).Info(strings.TrimPrefix(msg, StyleMarker))
}

// Warn writes at warn level
func (s *LogrusSink) Warn(msg, style string, data any) {
	s.entry(style, data).Warn(strings.TrimPrefix(msg, StyleMarker))
}

// Error writes at error level
func (s *LogrusSink) Error(msg, style string, data any) {
	s.entry(style, data).Error(strings.TrimPrefix(msg, StyleMarker))
}
