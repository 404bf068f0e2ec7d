// Package news wraps the external news-search providers behind a single
// budget-aware search call with fixed-priority failover.
package news

import (
	"sync"
)

// CallBudget is the process-wide ceiling on news-API calls for one pipeline
// run. The counter only ever increases; all mutations go through TryConsume
// so the accounting stays exact even under worker concurrency.
type CallBudget struct {
	mu   sync.Mutex
	used int
	max  int
}

// NewCallBudget creates a budget with the given ceiling.
func NewCallBudget(max int) *CallBudget {
	return &CallBudget{max: max}
}

// TryConsume claims one budget unit. It returns false, without consuming,
// when the ceiling has been reached.
func (b *CallBudget) TryConsume() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.used >= b.max {
		return false
	}
	b.used++
	return true
}

// Remaining reports whether at least one unit is left.
func (b *CallBudget) Remaining() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used < b.max
}

// Used returns the number of units consumed so far.
func (b *CallBudget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Max returns the configured ceiling.
func (b *CallBudget) Max() int {
	return b.max
}
