package procengine

import "testing"

func TestMakeInstanceOnNeutralIsImmediatelyDone(t *testing.T) {
	inst, err := MakeInstance(Neutral())
	if err != nil {
		t.Fatalf("MakeInstance: %v", err)
	}
	if !inst.Done() {
		t.Fatal("an instance of Neutral() should be Done at creation, with no events")
	}
	if inst.ID == "" {
		t.Fatal("MakeInstance should assign a non-empty id")
	}
}

func TestMakeInstanceGatedActivityNotYetDone(t *testing.T) {
	model := Make(ActivityData(Activity{ID: "review", Version: 1}))
	model = WithEndCondition(model, IsType("reviewed"))

	inst, err := MakeInstance(model)
	if err != nil {
		t.Fatalf("MakeInstance: %v", err)
	}
	if inst.Done() {
		t.Fatal("a gated activity should not be done before its event arrives")
	}
	activities := inst.CurrentlyActiveActivities()
	if len(activities) != 1 || activities[0].ID != "review" {
		t.Fatalf("CurrentlyActiveActivities = %v, want [review]", activities)
	}
}

func TestInstanceStepAdvancesAndRecordsHistory(t *testing.T) {
	model := Make(ActivityData(Activity{ID: "review", Version: 1}))
	model = WithEndCondition(model, IsType("reviewed"))

	inst, err := MakeInstance(model)
	if err != nil {
		t.Fatalf("MakeInstance: %v", err)
	}

	inst.Step(Event{Type: "reviewed"})

	if !inst.Done() {
		t.Fatal("instance should be done once the gating event arrives")
	}
	if len(inst.Events) != 1 || inst.Events[0].Type != "reviewed" {
		t.Fatalf("Events = %v, want a single reviewed event", inst.Events)
	}
}

func TestInstanceStepOnDoneInstanceIsHarmless(t *testing.T) {
	inst, err := MakeInstance(Neutral())
	if err != nil {
		t.Fatalf("MakeInstance: %v", err)
	}
	inst.Step(Event{Type: "irrelevant"})
	if !inst.Done() {
		t.Fatal("stepping a done instance should keep it done")
	}
	if len(inst.Events) != 1 {
		t.Fatalf("Step should still append to Events even once done, got %d entries", len(inst.Events))
	}
}

func TestMakeInstanceWithIDGenerator(t *testing.T) {
	gen := NewCounterGenerator("inst-")
	inst, err := MakeInstance(Neutral(), WithIDGenerator(gen))
	if err != nil {
		t.Fatalf("MakeInstance: %v", err)
	}
	if inst.ID != "inst-1" {
		t.Fatalf("ID = %q, want inst-1", inst.ID)
	}
}

func TestWithMetricsOptionIsSafeWithoutRegistry(t *testing.T) {
	var m *Metrics
	inst, err := MakeInstance(Neutral(), WithMetrics(m))
	if err != nil {
		t.Fatalf("MakeInstance: %v", err)
	}
	inst.Step(Event{Type: "x"})
}
