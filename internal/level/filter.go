// Package level decides which events reach the console sink.
package level

import (
	"sync/atomic"

	"eventlog/pkg/models"
)

// Filter holds the console threshold. Changing it affects only later
// emissions; stored events are never touched.
type Filter struct {
	threshold atomic.Int32
}

// NewFilter creates a filter with the given threshold
func NewFilter(threshold models.Severity) *Filter {
	f := &Filter{}
	f.Set(threshold)
	return f
}

// Set changes the threshold
func (f *Filter) Set(threshold models.Severity) {
	f.threshold.Store(int32(threshold))
}

// Threshold returns the current threshold
func (f *Filter) Threshold() models.Severity {
	return models.Severity(f.threshold.Load())
}

// Allows reports whether an event of the given severity is eligible for
// console output.
func (f *Filter) Allows(sev models.Severity) bool {
	return f.Threshold() <= sev
}
