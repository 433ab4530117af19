package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for standings computations.
type Metrics struct {
	Computations  *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	Entries       *prometheus.GaugeVec
	Notifications *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Computations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "championship_standings_computations_total",
			Help: "Standings computations by table kind and outcome",
		}, []string{"kind", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "championship_standings_computation_seconds",
			Help:    "Time spent computing a standings table",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		Entries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "championship_standings_entries",
			Help: "Entries in the most recently computed standings table",
		}, []string{"kind"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "championship_notifications_total",
			Help: "Standings notifications by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveComputation records one standings computation.
func (m *Metrics) ObserveComputation(kind string, started time.Time, entries int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Computations.WithLabelValues(kind, outcome).Inc()
	m.Duration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	if err == nil {
		m.Entries.WithLabelValues(kind).Set(float64(entries))
	}
}

func (m *Metrics) ObserveNotification(err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.Notifications.WithLabelValues(outcome).Inc()
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
