// Package hub fans a single stream of LogMappings out to any number of
// subscribers — one per connected websocket client for the `serve`
// subcommand (SPEC_FULL.md §6A). Grounded on the teacher's
// internal/hub.Hub, generalized from "parse a RawLine, broadcast a
// LogEntry" to "forward an already-mapped LogMapping".
package hub

import (
	"context"
	"log"
	"sync"

	"github.com/atikulmunna/log2src/internal/model"
)

const subscriberBuffer = 1024

// Hub broadcasts LogMappings to every subscriber connected at the time
// of broadcast.
type Hub struct {
	mu          sync.RWMutex
	subscribers []chan model.LogMapping
	dropped     int64
}

// New returns an empty Hub.
func New() *Hub {
	return &Hub{}
}

// Subscribe returns a buffered channel that receives every mapping
// broadcast after this call.
func (h *Hub) Subscribe() <-chan model.LogMapping {
	ch := make(chan model.LogMapping, subscriberBuffer)
	h.mu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.mu.Unlock()
	return ch
}

// Dropped returns the total number of mappings dropped across all
// subscribers due to a full buffer.
func (h *Hub) Dropped() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Run forwards every mapping read from in to every subscriber, until in
// is closed or ctx is cancelled.
func (h *Hub) Run(ctx context.Context, in <-chan model.LogMapping) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			h.broadcast(m)
		}
	}
}

// broadcast sends m to every subscriber, dropping it for any whose
// buffer is full rather than blocking the whole pipeline on one slow
// client.
func (h *Hub) broadcast(m model.LogMapping) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- m:
		default:
			h.dropped++
			log.Printf("hub: dropped mapping for slow consumer (total dropped: %d)", h.dropped)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
