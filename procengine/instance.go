package procengine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/smoes/workflow-engine-go/procengine/emit"
)

// Instance is a running execution of a Model: its own id, the Model it
// follows, the append-only Event log it has consumed, and the current
// pending Step set (spec §3/§4.6, C7). Grounded on the teacher's run-scoped
// state carried through graph/engine.go's Engine.Run, narrowed from "a
// mutable state value threaded through node executions" to "a step set
// settled against one event at a time."
type Instance struct {
	ID     string
	Model  Model
	Events []Event
	Steps  []Step

	ids       IDGenerator
	emitter   emit.Emitter
	metrics   *Metrics
	tracer    trace.Tracer
	iteration int
}

// MakeInstance validates model and starts a fresh Instance at its Start
// node, running the fixed point once against an empty event log (spec
// §4.6): this alone can settle the instance all the way to End when every
// edge on the path out of Start is unconditionally true, as Neutral() is.
func MakeInstance(model Model, opts ...Option) (*Instance, error) {
	if err := Validate(model); err != nil {
		return nil, err
	}

	cfg := &instanceConfig{
		emitter: emit.NewNullEmitter(),
		ids:     UUIDGenerator{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	initial, err := MakeSteps(model, Start)
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		ID:      cfg.ids.NewID(),
		Model:   model,
		ids:     cfg.ids,
		emitter: cfg.emitter,
		metrics: cfg.metrics,
		tracer:  cfg.tracer,
	}
	inst.Steps, _ = runToFixedPoint(model, initial, nil)

	inst.emit("instance_created", "", nil)
	if inst.Done() {
		inst.emit("instance_done", "", nil)
	}
	return inst, nil
}

// MakeInstanceWithID is MakeInstance with a caller-supplied instance id in
// place of one drawn from the configured IDGenerator.
func MakeInstanceWithID(model Model, id string, opts ...Option) (*Instance, error) {
	return MakeInstance(model, append(opts, withFixedID(id))...)
}

// Step appends event to the instance's log and runs the stepping algorithm
// to a fixed point against it (spec §4.5/§4.6). Calling Step on a done
// instance is harmless: every remaining step is the End terminal, which
// never transitions, so the step set is unchanged and the event is simply
// recorded.
func (inst *Instance) Step(event Event) {
	var span trace.Span
	if inst.tracer != nil {
		_, span = inst.tracer.Start(context.Background(), "procengine.Step")
		defer span.End()
	}

	inst.Events = append(inst.Events, event)
	settled, iterations := runToFixedPoint(inst.Model, inst.Steps, []Event{event})
	inst.Steps = settled
	inst.iteration++

	if span != nil {
		span.SetAttributes(
			attribute.String("instance.id", inst.ID),
			attribute.String("event.type", event.Type),
			attribute.Int("fixpoint.iterations", iterations),
		)
	}

	inst.metrics.RecordEvent(event.Type)
	inst.metrics.RecordIterations(iterations)
	inst.metrics.SetActiveSteps(inst.ID, len(inst.Steps))

	inst.emit("instance_stepped", event.Type, map[string]any{
		"fixed_point_iterations": iterations,
	})
	if inst.Done() {
		inst.emit("instance_done", event.Type, nil)
	}
}

// Done reports whether every pending step now originates at End (spec
// §4.6): the instance has nowhere left to go.
func (inst *Instance) Done() bool {
	for _, s := range inst.Steps {
		if !s.OriginData.IsEnd() {
			return false
		}
	}
	return true
}

// CurrentlyActive returns the NodeData of every distinct non-End node with
// a pending step, in no particular order (spec §4.6).
func (inst *Instance) CurrentlyActive() []NodeData {
	seen := make(map[NodeID]bool)
	var out []NodeData
	for _, s := range inst.Steps {
		if s.OriginData.IsEnd() || seen[s.Origin] {
			continue
		}
		seen[s.Origin] = true
		out = append(out, s.OriginData)
	}
	return out
}

// CurrentlyActiveActivities narrows CurrentlyActive to Activity nodes,
// the subset of active nodes a caller would typically want to dispatch
// work for (spec §4.6).
func (inst *Instance) CurrentlyActiveActivities() []Activity {
	var out []Activity
	for _, data := range inst.CurrentlyActive() {
		if a, ok := data.IsActivity(); ok {
			out = append(out, a)
		}
	}
	return out
}

func (inst *Instance) activeOrigins() []NodeID {
	seen := make(map[NodeID]bool)
	var out []NodeID
	for _, s := range inst.Steps {
		if seen[s.Origin] {
			continue
		}
		seen[s.Origin] = true
		out = append(out, s.Origin)
	}
	return out
}

func (inst *Instance) emit(msg, eventType string, meta map[string]any) {
	ids := inst.activeOrigins()
	nodeIDs := make([]string, len(ids))
	for i, id := range ids {
		nodeIDs[i] = string(id)
	}
	inst.emitter.Emit(emit.Event{
		InstanceID: inst.ID,
		Iteration:  inst.iteration,
		EventType:  eventType,
		NodeIDs:    nodeIDs,
		Msg:        msg,
		Meta:       meta,
	})
}

// Flush delegates to the configured Emitter's Flush, for callers that want
// to guarantee delivery before shutdown.
func (inst *Instance) Flush(ctx context.Context) error {
	return inst.emitter.Flush(ctx)
}
