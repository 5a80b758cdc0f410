package procengine

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/smoes/workflow-engine-go/procengine/emit"
)

// Option configures an Instance at construction time. Grounded on the
// teacher's functional-option pattern (graph/options.go's Option func(*engineConfig)
// error), narrowed to the four seams an Instance actually has: event
// emission, metrics, tracing, and id generation.
type Option func(*instanceConfig) error

type instanceConfig struct {
	emitter emit.Emitter
	metrics *Metrics
	tracer  trace.Tracer
	ids     IDGenerator
}

// WithEmitter attaches an Emitter that receives the instance's observability
// events (instance_created, instance_stepped per Instance.Step call, and
// instance_done). Default: emit.NewNullEmitter().
func WithEmitter(e emit.Emitter) Option {
	return func(cfg *instanceConfig) error {
		cfg.emitter = e
		return nil
	}
}

// WithMetrics attaches a Metrics collector. Default: nil, which leaves every
// metrics call a no-op (see Metrics' nil-receiver guards).
func WithMetrics(m *Metrics) Option {
	return func(cfg *instanceConfig) error {
		cfg.metrics = m
		return nil
	}
}

// WithTracer attaches an OpenTelemetry tracer that spans each Instance.Step
// call. Default: nil, which skips span creation entirely.
func WithTracer(t trace.Tracer) Option {
	return func(cfg *instanceConfig) error {
		cfg.tracer = t
		return nil
	}
}

// WithIDGenerator overrides the IDGenerator used to mint the instance's own
// id. Default: UUIDGenerator{}.
func WithIDGenerator(ids IDGenerator) Option {
	return func(cfg *instanceConfig) error {
		cfg.ids = ids
		return nil
	}
}
