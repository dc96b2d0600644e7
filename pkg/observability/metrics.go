package observability

import (
	"time"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records node visits, transitions, service fires and tick
// durations of one layer.
type Metrics struct {
	visits       *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	serviceTicks *prometheus.CounterVec
	active       *prometheus.GaugeVec
	tick         prometheus.Histogram
}

// NewMetrics creates the collectors, labelled with the layer name, and
// registers them on reg. A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(layer string, reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{"layer": layer}
	m := &Metrics{
		visits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "hfsm",
			Name:        "node_visits_total",
			Help:        "Total number of node activations.",
			ConstLabels: labels,
		}, []string{"path"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "hfsm",
			Name:        "transitions_total",
			Help:        "Total number of transitions taken.",
			ConstLabels: labels,
		}, []string{"from", "to"}),
		serviceTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "hfsm",
			Name:        "service_ticks_total",
			Help:        "Total number of service fires by outcome.",
			ConstLabels: labels,
		}, []string{"path", "response"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "hfsm",
			Name:        "node_active",
			Help:        "1 while the node is running.",
			ConstLabels: labels,
		}, []string{"path"}),
		tick: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "hfsm",
			Name:        "tick_duration_seconds",
			Help:        "Wall time spent in one Update call.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
	for _, c := range []prometheus.Collector{m.visits, m.transitions, m.serviceTicks, m.active, m.tick} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) OnEvent(e domain.Event) {
	switch e.Type {
	case domain.EventNodeStarted:
		m.visits.WithLabelValues(e.Path).Inc()
		m.active.WithLabelValues(e.Path).Set(1)
	case domain.EventGroupStarted:
		if e.Path != "" {
			m.visits.WithLabelValues(e.Path).Inc()
			m.active.WithLabelValues(e.Path).Set(1)
		}
	case domain.EventNodeEnded, domain.EventGroupEnded:
		if e.Path != "" {
			m.active.WithLabelValues(e.Path).Set(0)
		}
	case domain.EventTransition:
		m.transitions.WithLabelValues(e.From, e.Path).Inc()
	case domain.EventServiceTick:
		m.serviceTicks.WithLabelValues(e.Path, e.Response.String()).Inc()
	}
}

// ObserveTick records the duration of one Update.
func (m *Metrics) ObserveTick(d time.Duration) {
	m.tick.Observe(d.Seconds())
}
