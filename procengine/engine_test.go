package procengine

import "testing"

func activity(id NodeID) Model {
	return Make(ActivityData(Activity{ID: id, Version: 1}))
}

func TestRunToFixedPointSettlesNeutral(t *testing.T) {
	m := Neutral()
	initial, err := MakeSteps(m, Start)
	if err != nil {
		t.Fatalf("MakeSteps: %v", err)
	}
	settled, iterations := runToFixedPoint(m, initial, nil)
	if iterations == 0 {
		t.Fatal("expected at least one iteration")
	}
	for _, s := range settled {
		if !s.OriginData.IsEnd() {
			t.Fatalf("expected every settled step to originate at End, got %v", s.Origin)
		}
	}
}

func TestORDecisionDropsLosingBranch(t *testing.T) {
	approve := activity("approve")
	approve = WithEndCondition(approve, EventFieldEquals("decision", "approved", true))
	reject := activity("reject")
	reject = WithEndCondition(reject, EventFieldEquals("decision", "approved", false))

	model := OneOf(approve, reject, NewCounterGenerator("t"))
	if err := Validate(model); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	initial, err := MakeSteps(model, Start)
	if err != nil {
		t.Fatalf("MakeSteps: %v", err)
	}
	steps, _ := runToFixedPoint(model, initial, nil)

	steps, _ = runToFixedPoint(model, steps, []Event{{Type: "decision", Fields: map[string]any{"approved": true}}})

	activeOrigins := map[NodeID]bool{}
	for _, s := range steps {
		activeOrigins[s.Origin] = true
	}
	if activeOrigins["reject"] {
		t.Fatal("the rejected branch should have been dropped once approve fired")
	}
}

func TestANDWaitsForBothBranchesBeforeJoin(t *testing.T) {
	ship := activity("ship")
	ship = WithEndCondition(ship, IsType("shipped"))
	invoice := activity("invoice")
	invoice = WithEndCondition(invoice, IsType("invoiced"))

	model := Both(ship, invoice, NewCounterGenerator("t"))
	if err := Validate(model); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	initial, err := MakeSteps(model, Start)
	if err != nil {
		t.Fatalf("MakeSteps: %v", err)
	}
	steps, _ := runToFixedPoint(model, initial, nil)

	steps, _ = runToFixedPoint(model, steps, []Event{{Type: "shipped"}})

	done := true
	for _, s := range steps {
		if !s.OriginData.IsEnd() {
			done = false
		}
	}
	if done {
		t.Fatal("instance should not be done after only one And branch completed")
	}

	steps, _ = runToFixedPoint(model, steps, []Event{{Type: "invoiced"}})
	for _, s := range steps {
		if !s.OriginData.IsEnd() {
			t.Fatalf("expected all steps at End once both And branches completed, found origin %v", s.Origin)
		}
	}
}

func TestFixedPointIsBoundedAndDeterministic(t *testing.T) {
	m := Both(activity("a"), activity("b"), NewCounterGenerator("t"))
	initial, err := MakeSteps(m, Start)
	if err != nil {
		t.Fatalf("MakeSteps: %v", err)
	}

	s1, i1 := runToFixedPoint(m, initial, nil)
	s2, i2 := runToFixedPoint(m, initial, nil)

	if i1 != i2 {
		t.Fatalf("iteration counts differ across identical replays: %d vs %d", i1, i2)
	}
	if !stepsEqual(s1, s2) {
		t.Fatal("settled step sets differ across identical replays")
	}
}
