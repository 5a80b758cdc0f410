package emit

import "context"

// NullEmitter discards every event. It's the default for an Instance that
// doesn't configure WithEmitter. Grounded on the teacher's NullEmitter
// (graph/emit/null.go), completed here to satisfy Emitter in full — the
// teacher's version only defines Emit, leaving EmitBatch/Flush unimplemented.
type NullEmitter struct{}

// NewNullEmitter returns a NullEmitter.
func NewNullEmitter() *NullEmitter { return &NullEmitter{} }

// Emit is a no-op.
func (n *NullEmitter) Emit(Event) {}

// EmitBatch is a no-op.
func (n *NullEmitter) EmitBatch(context.Context, []Event) error { return nil }

// Flush is a no-op.
func (n *NullEmitter) Flush(context.Context) error { return nil }
