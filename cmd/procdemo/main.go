// Command procdemo builds a small purchase-approval process, starts an
// instance, and steps it through to completion while logging the
// instance's records (created, each step, done) — a runnable illustration
// of the core package's API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/smoes/workflow-engine-go/procengine"
	"github.com/smoes/workflow-engine-go/procengine/emit"
)

func main() {
	ids := procengine.UUIDGenerator{}

	submit := procengine.Make(procengine.ActivityData(procengine.Activity{
		ID:             "submit_request",
		Version:        1,
		RequiredEvents: []string{"request_submitted"},
		OutputEvents:   []string{"request_submitted"},
	}))
	submit = procengine.WithEndCondition(submit,
		procengine.EventFieldEquals("request_submitted", "ok", true))

	approve := procengine.Make(procengine.ActivityData(procengine.Activity{
		ID:             "manager_approval",
		Version:        1,
		RequiredEvents: []string{"decision"},
		OutputEvents:   []string{"decision"},
	}))
	approve = procengine.WithEndCondition(approve,
		procengine.EventFieldEquals("decision", "approved", true))

	reject := procengine.Make(procengine.ActivityData(procengine.Activity{
		ID:             "rejection_notice",
		Version:        1,
		RequiredEvents: []string{"decision"},
		OutputEvents:   []string{"decision"},
	}))
	reject = procengine.WithEndCondition(reject,
		procengine.EventFieldEquals("decision", "approved", false))

	decision := procengine.OneOf(approve, reject, ids)

	model, err := procengine.Append(submit, decision)
	if err != nil {
		log.Fatalf("build model: %v", err)
	}

	emitter := emit.NewLogEmitter(os.Stdout, false)
	metrics := procengine.NewMetrics(nil)

	inst, err := procengine.MakeInstance(model,
		procengine.WithEmitter(emitter),
		procengine.WithMetrics(metrics),
		procengine.WithIDGenerator(ids),
	)
	if err != nil {
		log.Fatalf("make instance: %v", err)
	}

	fmt.Printf("instance %s created, active=%v\n", inst.ID, inst.CurrentlyActiveActivities())

	inst.Step(procengine.Event{Type: "request_submitted", Fields: map[string]any{"ok": true}})
	fmt.Printf("after submission, active=%v\n", inst.CurrentlyActiveActivities())

	inst.Step(procengine.Event{Type: "decision", Fields: map[string]any{"approved": true}})
	fmt.Printf("after decision, done=%v\n", inst.Done())

	if err := inst.Flush(context.Background()); err != nil {
		log.Fatalf("flush: %v", err)
	}
}
