package alerting

import (
	"sync"

	"eventlog/pkg/models"
)

// task is a deferred listener call, or a flush marker when marker is set
type task struct {
	callback Callback
	event    models.LogEvent
	marker   chan struct{}
}

// taskQueue is an unbounded FIFO drained by one goroutine. Pushing never
// blocks, so listeners may log from inside their callbacks.
type taskQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []task
	closed  bool
	started bool
	done    chan struct{}
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *taskQueue) start(run func(task)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	go q.loop(run)
}

// push appends tasks contiguously; false once the queue is closed
func (q *taskQueue) push(tasks ...task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, tasks...)
	q.cond.Signal()
	return true
}

func (q *taskQueue) loop(run func(task)) {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		t := q.tasks[0]
		q.tasks[0] = task{}
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		run(t)
	}
}

// close stops accepting tasks and waits for the queued ones to finish
func (q *taskQueue) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	started := q.started
	q.cond.Broadcast()
	q.mu.Unlock()

	if started {
		<-q.done
	}
}
