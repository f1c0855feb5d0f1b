package ivaoapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK        = "ok"
	outcomeTransport = "transport"
	outcomeStatus    = "status"
	outcomeShape     = "shape"
	outcomeCancelled = "cancelled"
)

// Metrics bundles the roster feed collectors. They are created unregistered;
// see Provider.RegisterMetrics.
type Metrics struct {
	Fetches       *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	Controllers   prometheus.Gauge
	LastSuccess   prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ivao_roster_fetches_total",
			Help: "Roster fetch cycles, labeled by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ivao_roster_fetch_duration_seconds",
			Help:    "Roster download time in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		Controllers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ivao_roster_controllers",
			Help: "Controllers in the last published snapshot.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ivao_roster_last_success_timestamp_seconds",
			Help: "Unix time of the last published snapshot.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Fetches, m.FetchDuration, m.Controllers, m.LastSuccess}
}

func (m *Metrics) observeOutcome(outcome string) {
	m.Fetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeDownload(d time.Duration) {
	m.FetchDuration.Observe(d.Seconds())
}

func (m *Metrics) observePublish(count int, at time.Time) {
	m.Controllers.Set(float64(count))
	m.LastSuccess.Set(float64(at.Unix()))
}

// RegisterMetrics registers the feed collectors against reg, defaulting to the
// global Prometheus registry when nil.
func (p *Provider) RegisterMetrics(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range p.metrics.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) Metrics() *Metrics {
	return p.metrics
}
