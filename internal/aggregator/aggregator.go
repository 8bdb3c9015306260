// Package aggregator computes a time-windowed summary of a `serve`
// session's mapping stream, surfaced at /healthz and /api/stats
// (SPEC_FULL.md §6A). Grounded on the teacher's internal/aggregator.Aggregator,
// generalized from level-count metrics over LogEntry to
// resolved/unmatched counts over LogMapping.
package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/atikulmunna/log2src/internal/model"
)

// Stats holds a point-in-time snapshot of aggregated metrics.
type Stats struct {
	Uptime          string  `json:"uptime"`
	TotalMappings   int64   `json:"total_mappings"`
	EPS             float64 `json:"eps"`
	Resolved        int64   `json:"resolved"`
	Unmatched       int64   `json:"unmatched"`
	DroppedMappings int64   `json:"dropped_mappings"`
}

// Aggregator consumes a mapping stream and computes running totals plus
// a 5-second sliding-window events-per-second rate.
type Aggregator struct {
	mu          sync.RWMutex
	startTime   time.Time
	total       int64
	resolved    int64
	unmatched   int64
	window      []time.Time
	droppedFn   func() int64
	mappings    <-chan model.LogMapping
}

// New creates an Aggregator reading from mappings; droppedFn reports the
// live dropped-mapping count from the Hub feeding the same stream.
func New(mappings <-chan model.LogMapping, droppedFn func() int64) *Aggregator {
	return &Aggregator{
		startTime: time.Now(),
		droppedFn: droppedFn,
		mappings:  mappings,
	}
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := time.Now()
	cutoff := now.Add(-5 * time.Second)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}

	return Stats{
		Uptime:          time.Since(a.startTime).Truncate(time.Second).String(),
		TotalMappings:   a.total,
		EPS:             float64(recent) / 5.0,
		Resolved:        a.resolved,
		Unmatched:       a.unmatched,
		DroppedMappings: a.droppedFn(),
	}
}

// Start consumes mappings and updates metrics until ctx is cancelled or
// the channel closes.
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-a.mappings:
			if !ok {
				return
			}
			a.record(m)
		case <-ticker.C:
			a.prune()
		}
	}
}

func (a *Aggregator) record(m model.LogMapping) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	if m.SrcRef.IsResolved() {
		a.resolved++
	} else {
		a.unmatched++
	}
	a.window = append(a.window, time.Now())
}

func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-5 * time.Second)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}
