package event

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Emission outcomes, used as the "outcome" label value.
const (
	OutcomeCompleted = "completed"
	OutcomeStopped   = "stopped"
	OutcomeAborted   = "aborted"
	OutcomeFailed    = "failed"
)

// Metrics holds the prometheus collectors updated by a Registry.
type Metrics struct {
	emissions     *prometheus.CounterVec
	invocations   prometheus.Counter
	resorts       prometheus.Counter
	subscriptions prometheus.Gauge
}

// NewMetrics creates the registry collectors under namespace and registers them
// with reg. A nil reg leaves the collectors unregistered. If any collector fails
// to register, the ones already registered are unregistered again.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		emissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "emissions_total",
			Help:      "Total number of emissions by outcome.",
		}, []string{"outcome"}),
		invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "listener_invocations_total",
			Help:      "Total number of listener invocations.",
		}),
		resorts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "resorts_total",
			Help:      "Total number of lazy listener re-sorts.",
		}),
		subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "subscriptions",
			Help:      "Current number of registered listener entries.",
		}),
	}

	if reg == nil {
		return m, nil
	}

	// Registration is all or nothing.
	collectors := []prometheus.Collector{m.emissions, m.invocations, m.resorts, m.subscriptions}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			for _, registered := range collectors[:i] {
				reg.Unregister(registered)
			}
			return nil, fmt.Errorf("registering event metrics: %w", err)
		}
	}
	return m, nil
}

// The methods below are nil-safe so the registry can call them unconditionally.

func (m *Metrics) observeEmission(outcome string) {
	if m == nil {
		return
	}
	m.emissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeInvocation() {
	if m == nil {
		return
	}
	m.invocations.Inc()
}

func (m *Metrics) observeResort() {
	if m == nil {
		return
	}
	m.resorts.Inc()
}

func (m *Metrics) addSubscriptions(delta int) {
	if m == nil {
		return
	}
	m.subscriptions.Add(float64(delta))
}
