package emit

import "context"

// Emitter receives observability Events from a process instance: one at
// creation, one per Instance.Step call, and one more whenever the instance
// is done afterwards. Grounded on the teacher's Emitter (graph/emit/emitter.go):
// same three-method shape, carried over unchanged since it already fits —
// pluggable backends (log, trace, buffer), non-blocking, thread-safe.
type Emitter interface {
	// Emit sends a single Event. Must not block or panic; a backend that is
	// slow or unavailable should buffer, drop, or log rather than stall the
	// instance calling it.
	Emit(event Event)

	// EmitBatch sends multiple Events in one call, preserving order.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until every buffered Event has been delivered, or ctx is
	// done. Safe to call more than once.
	Flush(ctx context.Context) error
}
