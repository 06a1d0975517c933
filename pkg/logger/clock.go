package logger

import "time"

// Clock yields elapsed milliseconds. Values must never decrease.
type Clock interface {
	Now() float64
}

// ClockFunc adapts a function to Clock
type ClockFunc func() float64

// Now calls f
func (f ClockFunc) Now() float64 { return f() }

// MonotonicClock measures milliseconds since it was created, with
// microsecond resolution, from the runtime's monotonic clock
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock starts a clock at zero
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Now returns elapsed milliseconds
func (c *MonotonicClock) Now() float64 {
	return float64(time.Since(c.start).Microseconds()) / 1000
}
