// Package logger records timestamped, optionally grouped events.
//
// Events are mirrored to a console sink when their severity passes the
// threshold, kept for lookup by id or "group:id", and delivered
// asynchronously to registered listeners.
//
//	l := logger.New()
//	defer l.Close()
//	l.Log(models.Options{ID: "boot:start"})
//	l.Log(models.Options{ID: "boot:ready", Data: cfg})
//	l.ShowGroup("boot")
//
// Package-level functions use a shared instance returned by Default.
package logger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"eventlog/internal/alerting"
	"eventlog/internal/console"
	"eventlog/internal/level"
	"eventlog/internal/metrics"
	"eventlog/internal/report"
	"eventlog/internal/storage"
	"eventlog/internal/timefmt"
	"eventlog/pkg/models"
)

// Logger stores events and notifies listeners. It is safe for concurrent use.
type Logger struct {
	// mu serializes record so store order and dispatch order agree
	mu sync.Mutex

	clock    Clock
	colors   console.Colors
	sink     console.Sink
	filter   *level.Filter
	store    *storage.MemoryStore
	registry *alerting.Registry
	reporter *report.Reporter
	metrics  *metrics.Metrics
	log      *logrus.Logger

	policy   alerting.MatchPolicy
	renderer report.Renderer
	fallback report.Renderer
}

// Option configures a Logger
type Option func(*Logger)

// WithClock replaces the monotonic clock
func WithClock(c Clock) Option {
	return func(l *Logger) { l.clock = c }
}

// WithSink replaces the console sink
func WithSink(s console.Sink) Option {
	return func(l *Logger) { l.sink = s }
}

// WithColors overrides parts of the default palette
func WithColors(c console.Colors) Option {
	return func(l *Logger) { l.colors = c.Merge(console.DefaultColors()) }
}

// WithLevel sets the initial console threshold
func WithLevel(sev models.Severity) Option {
	return func(l *Logger) { l.filter.Set(sev) }
}

// WithMatchPolicy sets how listener filters combine
func WithMatchPolicy(p alerting.MatchPolicy) Option {
	return func(l *Logger) { l.policy = p }
}

// WithRenderer sets the table renderer used by ShowGroup. Passing nil
// selects the row-by-row fallback.
func WithRenderer(r report.Renderer) Option {
	return func(l *Logger) { l.renderer = r }
}

// WithFallback sets the renderer used when no table renderer is set
func WithFallback(r report.Renderer) Option {
	return func(l *Logger) { l.fallback = r }
}

// WithMetrics attaches Prometheus counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Logger) { l.metrics = m }
}

// WithLogrus sets the logger for internal diagnostics and the default sink
func WithLogrus(log *logrus.Logger) Option {
	return func(l *Logger) {
		if log != nil {
			l.log = log
		}
	}
}

// New creates an independent logger and starts its listener dispatcher
func New(opts ...Option) *Logger {
	l := &Logger{
		colors:   console.DefaultColors(),
		filter:   level.NewFilter(models.LevelLog),
		renderer: report.NewTableRenderer(os.Stdout),
		fallback: report.NewLinePrinter(func(args ...any) { fmt.Println(args...) }),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.clock == nil {
		l.clock = NewMonotonicClock()
	}
	if l.sink == nil {
		l.sink = console.NewLogrusSink(l.log)
	}

	l.store = storage.NewMemoryStore(l.clock.Now)
	l.registry = alerting.NewRegistry(
		alerting.WithPolicy(l.policy),
		alerting.WithLogger(l.log),
		alerting.WithMetrics(l.metrics),
	)
	l.reporter = report.NewReporter(l.store, l.renderer, l.fallback)
	l.registry.Start()
	return l
}

// Log records an event at LOG severity
func (l *Logger) Log(opts models.Options) error {
	return l.record(models.LevelLog, opts)
}

// Warn records an event at WARN severity
func (l *Logger) Warn(opts models.Options) error {
	return l.record(models.LevelWarn, opts)
}

// Error records an event at ERROR severity
func (l *Logger) Error(opts models.Options) error {
	return l.record(models.LevelError, opts)
}

func (l *Logger) record(sev models.Severity, opts models.Options) error {
	group, id, err := opts.Resolve()
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	event := models.LogEvent{
		ID:    id,
		Group: group,
		Data:  opts.Data,
		Level: sev,
		Time:  l.clock.Now(),
	}
	for i, stored := range l.store.Append(event) {
		if i > 0 {
			l.metrics.RecordCollision()
		}
		l.emit(stored)
		l.metrics.RecordEvent(stored.Level.String())
		l.registry.Dispatch(stored)
	}
	return nil
}

// emit writes to the console sink if the threshold allows it
func (l *Logger) emit(event models.LogEvent) {
	if !l.filter.Allows(event.Level) {
		l.metrics.RecordSuppressed(event.Level.String())
		return
	}
	msg := console.Message(event, timefmt.Format(event.Time))
	console.Emit(l.sink, event.Level, msg, l.colors.Style(event.Level), event.Data)
}

// GetLog returns the event stored under a bare id or "group:id"
func (l *Logger) GetLog(key string) (models.LogEvent, error) {
	return l.store.Get(key)
}

// Logs returns every stored event in insertion order
func (l *Logger) Logs() []models.LogEvent {
	return l.store.Logs()
}

// GetDifference formats time(a) - time(b). The result is signed.
func (l *Logger) GetDifference(a, b string) (string, error) {
	first, err := l.store.Get(a)
	if err != nil {
		return "", err
	}
	second, err := l.store.Get(b)
	if err != nil {
		return "", err
	}
	return timefmt.Format(first.Time - second.Time), nil
}

// GroupRows returns the timing rows of a group without rendering them
func (l *Logger) GroupRows(group string) ([]report.Row, error) {
	return l.reporter.Rows(group)
}

// ShowGroup renders a group's timing table
func (l *Logger) ShowGroup(group string) error {
	return l.reporter.Show(group)
}

// Listen registers a callback. It runs on the dispatcher goroutine, after
// the call that recorded the event has returned.
func (l *Logger) Listen(filter models.ListenerFilter, cb func(models.LogEvent)) {
	l.registry.Register(filter, cb)
}

// ClearAll drops stored events. Listeners stay registered.
func (l *Logger) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store.Clear()
}

// SetLevel changes the console threshold for later events
func (l *Logger) SetLevel(sev models.Severity) {
	l.filter.Set(sev)
}

// Level returns the console threshold
func (l *Logger) Level() models.Severity {
	return l.filter.Threshold()
}

// SetMatchPolicy changes how listener filters combine
func (l *Logger) SetMatchPolicy(p alerting.MatchPolicy) {
	l.registry.SetPolicy(p)
}

// Colors returns the console palette
func (l *Logger) Colors() console.Colors {
	return l.colors
}

// Flush waits for listener notifications scheduled so far. It must not be
// called from a listener: the listener itself is one of the notifications
// Flush waits on, so the call blocks until ctx is done.
func (l *Logger) Flush(ctx context.Context) error {
	return l.registry.Flush(ctx)
}

// Close delivers pending notifications and stops the dispatcher
func (l *Logger) Close() {
	l.registry.Close()
}
