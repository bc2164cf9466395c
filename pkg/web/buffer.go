package web

import (
	"sync"

	"github.com/umputun/nbcheck/pkg/runner"
)

// DefaultBufferSize is the number of run events kept for /api/events.
const DefaultBufferSize = 5000

// Buffer keeps the last N run events in publish order so a dashboard opened mid-run,
// or after the run, can load history before following the live stream.
type Buffer struct {
	mu    sync.RWMutex
	ring  []Event
	start int // index of the oldest event
	size  int // events stored, at most len(ring)
}

// Filter selects buffered events. zero fields match everything.
type Filter struct {
	Phase    runner.Phase
	Since    int64 // only events with ID above this
	Scenario int   // 1-based scenario index
}

func (f Filter) match(e Event) bool {
	switch {
	case f.Phase != "" && e.Phase != f.Phase:
		return false
	case f.Since > 0 && e.ID <= f.Since:
		return false
	case f.Scenario > 0 && e.Scenario != f.Scenario:
		return false
	}
	return true
}

// NewBuffer makes a buffer holding up to capacity events, DefaultBufferSize if capacity <= 0.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Buffer{ring: make([]Event, capacity)}
}

// Add stores e, dropping the oldest event when full.
func (b *Buffer) Add(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size < len(b.ring) {
		b.ring[(b.start+b.size)%len(b.ring)] = e
		b.size++
		return
	}
	b.ring[b.start] = e
	b.start = (b.start + 1) % len(b.ring)
}

// Query returns matching events oldest first, nil if none match.
func (b *Buffer) Query(f Filter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var res []Event
	for i := range b.size {
		e := b.ring[(b.start+i)%len(b.ring)]
		if f.match(e) {
			res = append(res, e)
		}
	}
	return res
}

// All returns every buffered event, oldest first.
func (b *Buffer) All() []Event { return b.Query(Filter{}) }

// ByPhase returns buffered events of one phase, oldest first.
func (b *Buffer) ByPhase(phase runner.Phase) []Event { return b.Query(Filter{Phase: phase}) }

// Since returns buffered events newer than id.
func (b *Buffer) Since(id int64) []Event { return b.Query(Filter{Since: id}) }

// Count returns the number of buffered events.
func (b *Buffer) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Clear drops all events.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.ring)
	b.start, b.size = 0, 0
}
