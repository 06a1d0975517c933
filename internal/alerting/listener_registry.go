package alerting

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"eventlog/internal/metrics"
	"eventlog/pkg/models"
)

// Callback receives a stored event on the dispatcher goroutine
type Callback func(models.LogEvent)

// MatchPolicy decides how a filter's group and level conditions combine
type MatchPolicy int

const (
	// MatchAny notifies when the group matches OR the level meets the
	// minimum. A filter with neither condition set matches nothing.
	MatchAny MatchPolicy = iota
	// MatchAll notifies when every condition that is set holds. A filter
	// with neither condition set matches everything.
	MatchAll
)

// String returns the config name of the policy
func (p MatchPolicy) String() string {
	if p == MatchAll {
		return "all"
	}
	return "any"
}

// ParseMatchPolicy maps "any" or "all" to a policy
func ParseMatchPolicy(name string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "any", "or":
		return MatchAny, nil
	case "all", "and":
		return MatchAll, nil
	}
	return MatchAny, fmt.Errorf("unknown listener match policy %q", name)
}

// Matches applies the policy to one filter and event
func (p MatchPolicy) Matches(f models.ListenerFilter, event models.LogEvent) bool {
	groupOK := f.Group != nil && *f.Group == event.Group
	levelOK := f.MinLevel != nil && *f.MinLevel <= event.Level

	if p == MatchAll {
		return (f.Group == nil || groupOK) && (f.MinLevel == nil || levelOK)
	}
	return groupOK || levelOK
}

// entry is one registration
type entry struct {
	filter   models.ListenerFilter
	callback Callback
}

// Registry holds listeners in registration order and notifies them
// asynchronously through a single FIFO dispatcher
type Registry struct {
	entries []entry
	policy  MatchPolicy
	mu      sync.RWMutex

	queue   *taskQueue
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

// Option configures a Registry
type Option func(*Registry)

// WithPolicy sets the match policy
func WithPolicy(p MatchPolicy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithLogger sets the logger used to report listener panics
func WithLogger(l *logrus.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithMetrics attaches dispatch counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry creates an empty registry. Call Start before dispatching.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries: make([]entry, 0),
		queue:   newTaskQueue(),
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the dispatcher goroutine
func (r *Registry) Start() {
	r.queue.start(r.run)
}

// Register appends a listener. Filters need not be unique.
func (r *Registry) Register(filter models.ListenerFilter, cb Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{filter: filter, callback: cb})
}

// Len returns the number of registered listeners
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Policy returns the active match policy
func (r *Registry) Policy() MatchPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policy
}

// SetPolicy changes the match policy for later dispatches
func (r *Registry) SetPolicy(p MatchPolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policy = p
}

// Dispatch schedules every matching listener for the event, in registration
// order, and returns how many were scheduled. No callback runs before
// Dispatch returns.
func (r *Registry) Dispatch(event models.LogEvent) int {
	r.mu.RLock()
	batch := make([]task, 0, len(r.entries))
	for _, e := range r.entries {
		if r.policy.Matches(e.filter, event) {
			batch = append(batch, task{callback: e.callback, event: event})
		}
	}
	r.mu.RUnlock()

	if len(batch) == 0 {
		return 0
	}
	if !r.queue.push(batch...) {
		r.logger.WithFields(logrus.Fields{
			"event": event.Key(),
			"count": len(batch),
		}).Warn("listener dispatcher closed, dropping notifications")
		return 0
	}
	for range batch {
		r.metrics.RecordDispatch()
	}
	return len(batch)
}

// Flush blocks until every notification scheduled before the call has run
func (r *Registry) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if !r.queue.push(task{marker: done}) {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close runs what is already queued and stops the dispatcher
func (r *Registry) Close() {
	r.queue.close()
}

// run invokes one task, containing panics
func (r *Registry) run(t task) {
	if t.marker != nil {
		close(t.marker)
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.RecordPanic()
			r.logger.WithFields(logrus.Fields{
				"event": t.event.Key(),
				"panic": rec,
			}).Error("listener panicked")
		}
	}()
	t.callback(t.event)
}
