package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

type Prom struct {
	reg *prometheus.Registry

	ItemsTotal  *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// DB
	DbQueryDuration *prometheus.HistogramVec
	DbErrorsTotal   *prometheus.CounterVec
}

// NewProm registers the seed collectors on a private registry. A seed run is
// a batch job, so metrics are pushed rather than scraped.
func NewProm() *Prom {
	p := &Prom{
		reg: prometheus.NewRegistry(),
		ItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ServiceName,
				Name:      "items_total",
				Help:      "Seed items processed by kind and status.",
			},
			[]string{"kind", "status"}, // status=created|skipped|failed
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: ServiceName,
				Name:      "run_duration_seconds",
				Help:      "Wall time of a seed run.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
		DbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ServiceName,
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "DB operation latency (logical op, not raw SQL)",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		DbErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ServiceName,
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "DB errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
	}
	p.reg.MustRegister(p.ItemsTotal, p.RunDuration, p.DbQueryDuration, p.DbErrorsTotal)

	return p
}

func (p *Prom) Registry() *prometheus.Registry {
	return p.reg
}

func (p *Prom) ObserveItem(kind, status string) {
	p.ItemsTotal.WithLabelValues(kind, status).Inc()
}

func (p *Prom) ObserveRun(d time.Duration) {
	p.RunDuration.Observe(d.Seconds())
}

// Push sends the current values to a Pushgateway under the job name of the
// service, grouped by command.
func (p *Prom) Push(ctx context.Context, url, command string) error {
	return push.New(url, ServiceName).
		Gatherer(p.reg).
		Grouping("command", command).
		PushContext(ctx)
}
