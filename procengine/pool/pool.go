package pool

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/smoes/workflow-engine-go/procengine"
)

// Registry looks up the live Instance a submitted event belongs to. Callers
// typically back this with a map they also use for their own bookkeeping,
// or a store-backed lookup that rehydrates on first access.
type Registry interface {
	Instance(instanceID string) (*procengine.Instance, error)
}

// RegistryFunc adapts a plain function to a Registry.
type RegistryFunc func(instanceID string) (*procengine.Instance, error)

// Instance implements Registry.
func (f RegistryFunc) Instance(instanceID string) (*procengine.Instance, error) {
	return f(instanceID)
}

// ErrPoolClosed is returned by Submit once the Pool has been shut down.
var ErrPoolClosed = fmt.Errorf("pool is closed")

// workItem is a single queued (instance id, event) submission, ordered by
// ComputeOrderKey the same way the teacher's Frontier orders WorkItems.
type workItem struct {
	instanceID string
	event      procengine.Event
	orderKey   uint64
	result     chan<- error
}

type workHeap []workItem

func (h workHeap) Len() int            { return len(h) }
func (h workHeap) Less(i, j int) bool  { return h[i].orderKey < h[j].orderKey }
func (h workHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *workHeap) Push(x interface{}) { *h = append(*h, x.(workItem)) }
func (h *workHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// Pool drives a bounded number of worker goroutines that pop queued
// (instance, event) submissions in deterministic OrderKey order and call
// Instance.Step, holding a per-instance-id lock so no instance is ever
// stepped by two goroutines concurrently (spec §4.9/§5). Grounded on the
// teacher's Frontier/Scheduler (graph/scheduler.go): same heap-plus-channel
// bounded queue shape, narrowed from "schedule node executions" to
// "serialize Step calls per instance."
type Pool struct {
	registry Registry
	workers  int

	mu      sync.Mutex
	items   workHeap
	notify  chan struct{}
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	seqMu sync.Mutex
	seq   int
}

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers sets the number of worker goroutines draining the queue.
// Default: 4.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// New starts a Pool backed by registry and runs its worker goroutines.
// Call Close to stop them.
func New(registry Registry, opts ...Option) *Pool {
	p := &Pool{
		registry: registry,
		workers:  4,
		notify:   make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker()
	}
	return p
}

// Submit enqueues event for instanceID and returns a channel that receives
// exactly one error (nil on success) once the instance has been stepped.
// Submissions for the same instanceID are applied in submission order;
// submissions for different instances may run concurrently across
// worker goroutines.
func (p *Pool) Submit(instanceID string, event procengine.Event) <-chan error {
	result := make(chan error, 1)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		result <- ErrPoolClosed
		return result
	}

	p.seqMu.Lock()
	p.seq++
	seq := p.seq
	p.seqMu.Unlock()

	heap.Push(&p.items, workItem{
		instanceID: instanceID,
		event:      event,
		orderKey:   ComputeOrderKey(instanceID, seq),
		result:     result,
	})
	p.mu.Unlock()

	select {
	case p.notify <- struct{}{}:
	default:
	}
	return result
}

func (p *Pool) runWorker() {
	defer p.wg.Done()
	for {
		item, ok := p.dequeue()
		if !ok {
			select {
			case <-p.closeCh:
				return
			case <-p.notify:
				continue
			}
		}
		item.result <- p.step(item.instanceID, item.event)
	}
}

func (p *Pool) dequeue() (workItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.items.Len() == 0 {
		return workItem{}, false
	}
	return heap.Pop(&p.items).(workItem), true
}

func (p *Pool) step(instanceID string, event procengine.Event) error {
	lock := p.lockFor(instanceID)
	lock.Lock()
	defer lock.Unlock()

	inst, err := p.registry.Instance(instanceID)
	if err != nil {
		return fmt.Errorf("lookup instance %s: %w", instanceID, err)
	}
	inst.Step(event)
	return nil
}

func (p *Pool) lockFor(instanceID string) *sync.Mutex {
	p.locksMu.Lock()
	defer p.locksMu.Unlock()
	l, ok := p.locks[instanceID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[instanceID] = l
	}
	return l
}

// Close stops accepting new submissions and waits for queued work to
// drain and worker goroutines to exit.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	for {
		p.mu.Lock()
		empty := p.items.Len() == 0
		p.mu.Unlock()
		if empty {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}

	close(p.closeCh)
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
