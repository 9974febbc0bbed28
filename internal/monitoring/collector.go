// Package monitoring tracks scrape-cycle statistics and exposes them over a
// small status HTTP server.
package monitoring

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time view of scout health.
type Snapshot struct {
	Cycles         int        `json:"cycles"`
	CycleFailures  int        `json:"cycle_failures"`
	ListingsSeen   int        `json:"listings_seen"`
	ListingsPosted int        `json:"listings_posted"`
	ListingErrors  int        `json:"listing_errors"`
	LastCycleAt    *time.Time `json:"last_cycle_at,omitempty"`
	LastCycleSecs  float64    `json:"last_cycle_secs"`
}

// Collector accumulates counters across scrape cycles. Safe for concurrent
// use by the cycle loop and the status server.
type Collector struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// CycleDone records one finished cycle and its outcome counts.
func (c *Collector) CycleDone(seen, posted, errors int, took time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	c.snap.Cycles++
	if failed {
		c.snap.CycleFailures++
	}
	c.snap.ListingsSeen += seen
	c.snap.ListingsPosted += posted
	c.snap.ListingErrors += errors
	c.snap.LastCycleAt = &now
	c.snap.LastCycleSecs = took.Seconds()
}

// Snapshot returns a copy of the current counters.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.snap
	if c.snap.LastCycleAt != nil {
		at := *c.snap.LastCycleAt
		snap.LastCycleAt = &at
	}
	return snap
}
