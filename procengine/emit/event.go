// Package emit provides pluggable observability for procengine instances.
package emit

// Event is one observability record: an instance emits instance_created
// when it is made, instance_stepped on every Instance.Step call, and
// instance_done after creation or a Step call that leaves it done.
// Grounded on the teacher's emit.Event (graph/emit/event.go), renamed from
// the teacher's per-node-execution shape (RunID/Step/NodeID) to this
// engine's own: an instance advances as a whole on each incoming event, so
// there is no single node to attribute the record to — NodeIDs instead
// lists every node with a pending step once the record's step settled.
type Event struct {
	// InstanceID identifies the process instance that produced this record.
	InstanceID string

	// Iteration is the 1-indexed count of Instance.Step calls this
	// instance has processed so far, including the one this record
	// describes. Zero for the instance_created record.
	Iteration int

	// EventType is the Type of the procengine.Event that drove this step,
	// empty for instance_created and for an instance_done record emitted
	// at creation.
	EventType string

	// NodeIDs lists the origin nodes with a pending step once this
	// record's step settled.
	NodeIDs []string

	// Msg names the record: "instance_created", "instance_stepped", or
	// "instance_done".
	Msg string

	// Meta carries additional structured detail; instance_stepped records
	// set "fixed_point_iterations", the other records leave it nil.
	Meta map[string]interface{}
}
