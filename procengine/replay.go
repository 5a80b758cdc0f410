package procengine

import "fmt"

// Rehydrate reconstructs an Instance by replaying a previously persisted
// event log against a fresh start: it builds a new Instance (running the
// same initial fixed point MakeInstance always runs) and then replays each
// event in order through Step. Because the stepping algorithm is
// deterministic, this reproduces the same Steps a live instance would have
// reached, without ever serializing Condition or NodeData (spec §4.7,
// store.Store). id overrides the generated id with the persisted one, so
// the rehydrated Instance keeps identity with the stored log.
func Rehydrate(model Model, id string, events []Event, opts ...Option) (*Instance, error) {
	opts = append(opts, withFixedID(id))
	inst, err := MakeInstance(model, opts...)
	if err != nil {
		return nil, fmt.Errorf("rehydrate: %w", err)
	}
	for _, e := range events {
		inst.Step(e)
	}
	return inst, nil
}

func withFixedID(id string) Option {
	return func(cfg *instanceConfig) error {
		cfg.ids = fixedIDGenerator{id: id}
		return nil
	}
}

type fixedIDGenerator struct{ id string }

func (g fixedIDGenerator) NewID() string { return g.id }

// ErrReplayMismatch is returned by ReplayVerifier.Verify when replaying an
// event log against a Model settles on a different step set than the one
// recorded, signalling either a non-deterministic Model (a condition whose
// evaluation depends on something other than its declared event fields) or
// a Model that changed shape since the log was recorded.
var ErrReplayMismatch = fmt.Errorf("replayed steps do not match recorded steps")

// ReplayVerifier re-derives an Instance's step set from its event log and
// checks it against the steps actually recorded, to catch determinism
// violations before they reach persistence (spec §4.7).
type ReplayVerifier struct {
	Model Model
}

// Verify rehydrates a throwaway Instance from events and compares its
// settled Steps against want. It returns ErrReplayMismatch, wrapped with
// the rehydration id, if they differ.
func (v ReplayVerifier) Verify(events []Event, want []Step) error {
	inst, err := Rehydrate(v.Model, "replay-verify", events)
	if err != nil {
		return fmt.Errorf("replay verify: %w", err)
	}
	if !stepsEqual(inst.Steps, want) {
		return fmt.Errorf("%w: instance %s", ErrReplayMismatch, inst.ID)
	}
	return nil
}
