package procengine

import "testing"

func TestRehydrateReproducesStepSetFromEventLog(t *testing.T) {
	model := Make(ActivityData(Activity{ID: "review", Version: 1}))
	model = WithEndCondition(model, IsType("reviewed"))

	live, err := MakeInstance(model, WithIDGenerator(NewCounterGenerator("live-")))
	if err != nil {
		t.Fatalf("MakeInstance: %v", err)
	}
	live.Step(Event{Type: "reviewed"})

	rehydrated, err := Rehydrate(model, live.ID, live.Events)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}

	if rehydrated.ID != live.ID {
		t.Fatalf("Rehydrate ID = %q, want %q", rehydrated.ID, live.ID)
	}
	if !stepsEqual(rehydrated.Steps, live.Steps) {
		t.Fatalf("rehydrated steps = %#v, want %#v", rehydrated.Steps, live.Steps)
	}
	if !rehydrated.Done() {
		t.Fatal("rehydrated instance should be done, matching the live one")
	}
}

func TestReplayVerifierDetectsMismatch(t *testing.T) {
	model := Make(ActivityData(Activity{ID: "review", Version: 1}))
	model = WithEndCondition(model, IsType("reviewed"))

	verifier := ReplayVerifier{Model: model}

	bogus := []Step{{Origin: "nonexistent", Condition: CFalse(), Rest: CFalse()}}
	err := verifier.Verify([]Event{{Type: "reviewed"}}, bogus)
	if err == nil {
		t.Fatal("Verify should report a mismatch against a bogus expected step set")
	}
}

func TestReplayVerifierAcceptsMatchingLog(t *testing.T) {
	model := Make(ActivityData(Activity{ID: "review", Version: 1}))
	model = WithEndCondition(model, IsType("reviewed"))

	recorded, err := Rehydrate(model, "recorded", []Event{{Type: "reviewed"}})
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}

	verifier := ReplayVerifier{Model: model}
	if err := verifier.Verify([]Event{{Type: "reviewed"}}, recorded.Steps); err != nil {
		t.Fatalf("Verify on a matching log: %v", err)
	}
}
