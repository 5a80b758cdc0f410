package pool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smoes/workflow-engine-go/procengine"
)

func TestComputeOrderKeyDeterministic(t *testing.T) {
	a := ComputeOrderKey("inst-1", 5)
	b := ComputeOrderKey("inst-1", 5)
	if a != b {
		t.Fatalf("ComputeOrderKey should be deterministic, got %d vs %d", a, b)
	}
	c := ComputeOrderKey("inst-1", 6)
	if a == c {
		t.Fatal("ComputeOrderKey should differ across sequence numbers")
	}
}

func TestPoolSubmitAppliesEventToInstance(t *testing.T) {
	model := procengine.Make(procengine.ActivityData(procengine.Activity{ID: "gate", Version: 1}))
	model = procengine.WithEndCondition(model, procengine.IsType("go"))

	inst, err := procengine.MakeInstance(model, procengine.WithIDGenerator(procengine.NewCounterGenerator("inst-")))
	if err != nil {
		t.Fatalf("MakeInstance: %v", err)
	}

	var mu sync.Mutex
	instances := map[string]*procengine.Instance{inst.ID: inst}
	registry := RegistryFunc(func(id string) (*procengine.Instance, error) {
		mu.Lock()
		defer mu.Unlock()
		return instances[id], nil
	})

	p := New(registry, WithWorkers(2))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = p.Close(ctx)
	}()

	errCh := p.Submit(inst.ID, procengine.Event{Type: "go"})
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Submit result: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for submitted event to be applied")
	}

	mu.Lock()
	done := inst.Done()
	mu.Unlock()
	if !done {
		t.Fatal("instance should be done after its gating event was submitted through the pool")
	}
}

func TestPoolSubmitAfterCloseFails(t *testing.T) {
	registry := RegistryFunc(func(string) (*procengine.Instance, error) { return nil, nil })
	p := New(registry)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	errCh := p.Submit("inst-1", procengine.Event{Type: "x"})
	if err := <-errCh; err != ErrPoolClosed {
		t.Fatalf("Submit after Close = %v, want ErrPoolClosed", err)
	}
}
