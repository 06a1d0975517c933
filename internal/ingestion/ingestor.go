package ingestion

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"eventlog/pkg/models"
)

// Recorder is the part of the logger the ingestor writes to
type Recorder interface {
	Log(opts models.Options) error
	Warn(opts models.Options) error
	Error(opts models.Options) error
}

// Request is one queued event
type Request struct {
	Level   models.Severity
	Options models.Options
}

// Ingestor accepts events from producers that must not block (HTTP
// handlers, traffic simulation) and records them from a single worker so
// queue order is store order
type Ingestor struct {
	recorder Recorder
	queue    chan Request
	logger   *logrus.Logger
	wg       sync.WaitGroup
	stats    *Stats
	pending  atomic.Int64
	stopOnce sync.Once
	shutdown chan struct{}
}

// Stats tracks ingestion counts
type Stats struct {
	TotalProcessed uint64    `json:"total_processed"`
	TotalDropped   uint64    `json:"total_dropped"`
	TotalRejected  uint64    `json:"total_rejected"`
	StartTime      time.Time `json:"start_time"`
}

// NewIngestor creates an ingestor with a bounded queue
func NewIngestor(recorder Recorder, bufferSize int, logger *logrus.Logger) *Ingestor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Ingestor{
		recorder: recorder,
		queue:    make(chan Request, bufferSize),
		logger:   logger,
		stats: &Stats{
			StartTime: time.Now(),
		},
		shutdown: make(chan struct{}),
	}
}

// Start begins the worker
func (ing *Ingestor) Start() {
	ing.wg.Add(1)
	go ing.worker()
}

// Ingest queues an event without blocking; false means the queue was full
// or the ingestor has been stopped
func (ing *Ingestor) Ingest(req Request) bool {
	select {
	case <-ing.shutdown:
		atomic.AddUint64(&ing.stats.TotalDropped, 1)
		return false
	default:
	}

	ing.pending.Add(1)
	select {
	case ing.queue <- req:
		return true
	default:
		ing.pending.Add(-1)
		atomic.AddUint64(&ing.stats.TotalDropped, 1)
		return false
	}
}

// worker records queued events until shutdown, then drains the queue
func (ing *Ingestor) worker() {
	defer ing.wg.Done()

	for {
		select {
		case req := <-ing.queue:
			ing.record(req)
		case <-ing.shutdown:
			for {
				select {
				case req := <-ing.queue:
					ing.record(req)
				default:
					return
				}
			}
		}
	}
}

func (ing *Ingestor) record(req Request) {
	defer ing.pending.Add(-1)

	var err error
	switch req.Level {
	case models.LevelWarn:
		err = ing.recorder.Warn(req.Options)
	case models.LevelError:
		err = ing.recorder.Error(req.Options)
	default:
		err = ing.recorder.Log(req.Options)
	}
	if err != nil {
		atomic.AddUint64(&ing.stats.TotalRejected, 1)
		ing.logger.WithError(err).WithField("id", req.Options.ID).Warn("ingest rejected event")
		return
	}
	atomic.AddUint64(&ing.stats.TotalProcessed, 1)
}

// Drain waits until everything queued so far has been recorded
func (ing *Ingestor) Drain(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for ing.pending.Load() > 0 {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Stop records what is queued and shuts the worker down
func (ing *Ingestor) Stop() {
	ing.stopOnce.Do(func() {
		close(ing.shutdown)
		ing.wg.Wait()
	})
}

// GetStats returns current ingestion statistics
func (ing *Ingestor) GetStats() Stats {
	return Stats{
		TotalProcessed: atomic.LoadUint64(&ing.stats.TotalProcessed),
		TotalDropped:   atomic.LoadUint64(&ing.stats.TotalDropped),
		TotalRejected:  atomic.LoadUint64(&ing.stats.TotalRejected),
		StartTime:      ing.stats.StartTime,
	}
}
