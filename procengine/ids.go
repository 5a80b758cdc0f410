package procengine

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator mints fresh node ids for the Or/And/Join nodes created by the
// OneOf, Both, and Loop combinators, and instance ids for MakeInstance. Spec §9
// requires this to be an injected interface, never a hidden global, so
// that model construction stays deterministic under test.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces RFC 4122 UUIDs via github.com/google/uuid, the
// production default. google/uuid is already a proven dependency
// elsewhere in the pack (albert-saclot-workflow-go-challenge,
// mattsp1290-ag-ui both import it directly for exactly this purpose).
type UUIDGenerator struct{}

// NewID returns a fresh random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// CounterGenerator produces deterministic, monotonically increasing ids
// prefixed with Prefix, for tests that need reproducible model/instance
// ids. Mirrors the teacher's deterministic-vs-production split for
// randomness (initRNG in graph/engine.go seeds from the run id instead of
// wall-clock entropy).
type CounterGenerator struct {
	Prefix string
	n      int64
}

// NewID returns the next "<Prefix><n>" id.
func (c *CounterGenerator) NewID() string {
	n := atomic.AddInt64(&c.n, 1)
	return c.Prefix + strconv.FormatInt(n, 10)
}

// NewCounterGenerator returns a CounterGenerator starting at 1, with the
// given prefix.
func NewCounterGenerator(prefix string) *CounterGenerator {
	return &CounterGenerator{Prefix: prefix}
}
