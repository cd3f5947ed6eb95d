package monitoring

import (
	"sync"
	"time"
)

// MetricsSnapshot is a point-in-time view of pipeline health since
// process start. The pipeline itself is stateless, so this is the only
// shared state in the service.
type MetricsSnapshot struct {
	Total         int            `json:"total"`
	Live          int            `json:"live"`
	Degraded      int            `json:"degraded"`
	ByOutcome     map[string]int `json:"by_outcome"`
	DegradedRate  float64        `json:"degraded_rate"`
	EstimatedCost float64        `json:"estimated_cost_usd"`
	CollectedAt   time.Time      `json:"collected_at"`
}

// Collector counts request outcomes and estimated provider spend.
// Safe for concurrent use.
type Collector struct {
	mu        sync.Mutex
	total     int
	live      int
	degraded  int
	byOutcome map[string]int
	costUSD   float64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{byOutcome: make(map[string]int)}
}

// Record tallies one completed request. outcome is the terminal state
// tag; costUSD is the estimated spend for the request (zero when no
// provider call was made).
func (c *Collector) Record(outcome string, degraded bool, costUSD float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.byOutcome[outcome]++
	if degraded {
		c.degraded++
	} else {
		c.live++
	}
	c.costUSD += costUSD
}

// Snapshot returns the current counters.
func (c *Collector) Snapshot() MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := MetricsSnapshot{
		Total:         c.total,
		Live:          c.live,
		Degraded:      c.degraded,
		ByOutcome:     make(map[string]int, len(c.byOutcome)),
		EstimatedCost: c.costUSD,
		CollectedAt:   time.Now().UTC(),
	}
	for k, v := range c.byOutcome {
		snap.ByOutcome[k] = v
	}
	if c.total > 0 {
		snap.DegradedRate = float64(c.degraded) / float64(c.total)
	}
	return snap
}
