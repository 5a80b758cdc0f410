package emit

import (
	"context"
	"sync"
)

// BufferedEmitter keeps every Event in memory, organized by InstanceID, for
// query-by-history use: tests, debugging, dashboards. Grounded on the
// teacher's BufferedEmitter (graph/emit/buffered.go), with its step-range
// filter renamed to an iteration-range filter and NodeID narrowed to a
// node-ids-contains check (an Event here can name several active nodes).
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event
}

// HistoryFilter narrows GetHistoryWithFilter. Zero-value fields impose no
// constraint; all set fields combine with AND.
type HistoryFilter struct {
	NodeID       string
	Msg          string
	MinIteration *int
	MaxIteration *int
}

// NewBufferedEmitter returns an empty BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{events: make(map[string][]Event)}
}

// Emit appends event under its InstanceID.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[event.InstanceID] = append(b.events[event.InstanceID], event)
}

// EmitBatch appends every event in order.
func (b *BufferedEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, e := range events {
		b.Emit(e)
	}
	return nil
}

// Flush is a no-op: BufferedEmitter holds events directly, nothing to drain.
func (b *BufferedEmitter) Flush(_ context.Context) error { return nil }

// GetHistory returns a copy of every event recorded for instanceID, in
// emission order.
func (b *BufferedEmitter) GetHistory(instanceID string) []Event {
	return b.GetHistoryWithFilter(instanceID, HistoryFilter{})
}

// GetHistoryWithFilter returns a copy of the events recorded for instanceID
// that match filter, in emission order.
func (b *BufferedEmitter) GetHistoryWithFilter(instanceID string, filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var result []Event
	for _, event := range b.events[instanceID] {
		if matchesFilter(event, filter) {
			result = append(result, event)
		}
	}
	if result == nil {
		return []Event{}
	}
	return result
}

func matchesFilter(event Event, filter HistoryFilter) bool {
	if filter.NodeID != "" && !containsNodeID(event.NodeIDs, filter.NodeID) {
		return false
	}
	if filter.Msg != "" && event.Msg != filter.Msg {
		return false
	}
	if filter.MinIteration != nil && event.Iteration < *filter.MinIteration {
		return false
	}
	if filter.MaxIteration != nil && event.Iteration > *filter.MaxIteration {
		return false
	}
	return true
}

func containsNodeID(ids []string, id string) bool {
	for _, n := range ids {
		if n == id {
			return true
		}
	}
	return false
}

// Clear discards the history for instanceID, or every instance if
// instanceID is empty.
func (b *BufferedEmitter) Clear(instanceID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if instanceID == "" {
		b.events = make(map[string][]Event)
		return
	}
	delete(b.events, instanceID)
}
