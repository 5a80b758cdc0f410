package procengine

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus-compatible counters and histograms for the
// stepping engine. All metrics are namespaced "procengine_". Grounded on
// the teacher's PrometheusMetrics (graph/metrics.go), narrowed from node
// execution telemetry to step-level telemetry: there is no per-node
// latency to measure here, since evaluating a Condition is pure and
// immediate, but the count of fixed-point iterations a single Step(event)
// call required is a useful signal that a model's graph shape is
// expensive to settle.
type Metrics struct {
	instancesActive  prometheus.Gauge
	eventsTotal      *prometheus.CounterVec
	iterationsPerRun prometheus.Histogram
	activeSteps      *prometheus.GaugeVec

	mu      sync.RWMutex
	enabled bool
}

// NewMetrics registers the engine's metrics with registry. A nil registry
// falls back to prometheus.DefaultRegisterer, matching the teacher's
// NewPrometheusMetrics convention.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	m := &Metrics{enabled: true}

	m.instancesActive = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "procengine",
		Name:      "instances_active",
		Help:      "Number of process instances currently not done",
	})

	m.eventsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procengine",
		Name:      "events_total",
		Help:      "Events fed into Instance.Step, labeled by event type",
	}, []string{"event_type"})

	m.iterationsPerRun = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "procengine",
		Name:      "fixed_point_iterations",
		Help:      "Number of advance_once passes a single Step(event) call needed to settle",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
	})

	m.activeSteps = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "procengine",
		Name:      "active_steps",
		Help:      "Pending step count of an instance after its last Step call, labeled by instance id",
	}, []string{"instance_id"})

	return m
}

// RecordEvent increments the events_total counter for eventType.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil || !m.enabledNow() {
		return
	}
	m.eventsTotal.WithLabelValues(eventType).Inc()
}

// RecordIterations observes the number of advance_once passes a Step call took.
func (m *Metrics) RecordIterations(n int) {
	if m == nil || !m.enabledNow() {
		return
	}
	m.iterationsPerRun.Observe(float64(n))
}

// SetActiveSteps records the pending step count for instanceID.
func (m *Metrics) SetActiveSteps(instanceID string, n int) {
	if m == nil || !m.enabledNow() {
		return
	}
	m.activeSteps.WithLabelValues(instanceID).Set(float64(n))
}

// SetInstancesActive sets the count of instances that are not yet done.
func (m *Metrics) SetInstancesActive(n int) {
	if m == nil || !m.enabledNow() {
		return
	}
	m.instancesActive.Set(float64(n))
}

func (m *Metrics) enabledNow() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Disable stops metric recording, useful for tests.
func (m *Metrics) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
}

// Enable resumes metric recording after Disable.
func (m *Metrics) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
}
