// Package store provides persistence for process instance event logs.
//
// A process instance's pending step set is never persisted directly: its
// Condition and NodeData trees carry unexported fields and aren't
// JSON-serializable, and they don't need to be. The event log alone is
// enough — replaying it through a fresh instance of the same Model
// deterministically reproduces the same step set (procengine.Rehydrate).
// Store's job is narrower than the teacher's Store[S]: persist and load
// that append-only log, keyed by instance id.
package store

import (
	"context"
	"errors"

	"github.com/smoes/workflow-engine-go/procengine"
)

// ErrNotFound is returned when a requested instance id has no stored log.
var ErrNotFound = errors.New("not found")

// Store persists process instance event logs. Grounded on the teacher's
// Store[S] (graph/store/store.go), narrowed from a generic per-step state
// store plus checkpoint/idempotency/outbox machinery (none of which this
// engine needs, since stepping has no side effects to make idempotent or
// events to deliver exactly once) down to SaveEvents/LoadEvents/ListInstances.
type Store interface {
	// SaveEvents overwrites the stored log for instanceID with events.
	SaveEvents(ctx context.Context, instanceID string, events []procengine.Event) error

	// LoadEvents retrieves the stored log for instanceID, or ErrNotFound.
	LoadEvents(ctx context.Context, instanceID string) ([]procengine.Event, error)

	// ListInstances returns every instance id with a stored log.
	ListInstances(ctx context.Context) ([]string, error)
}
