package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the report pipeline. The
// process is one-shot, so the values are logged via LogSummary at the end of
// the run rather than scraped. Each Metrics owns its registry, keeping the
// gathered output free of runtime collectors and letting tests create
// instances freely.
type Metrics struct {
	RowsLoaded     *prometheus.CounterVec // labels: table={details,locations,fatalities}
	EventsJoined   prometheus.Counter
	CleanFallbacks *prometheus.CounterVec // labels: kind={timestamp,damage}
	ChartsRendered prometheus.Counter
	StageDuration  *prometheus.HistogramVec // labels: stage={extract,transform,summarize,render,archive}
	RunActive      prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates the pipeline metrics, registered on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "rows_loaded_total",
			Help:      "Rows loaded per input table.",
		}, []string{"table"}),
		EventsJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "events_joined_total",
			Help:      "Cleaned events produced by the join stage.",
		}),
		CleanFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "clean_fallbacks_total",
			Help:      "Rows that fell back to a default during cleaning, by kind.",
		}, []string{"kind"}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "charts_rendered_total",
			Help:      "Chart artifacts written.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storm_report",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_report",
			Name:      "run_active",
			Help:      "1 while the pipeline is running, 0 once it has exited.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RowsLoaded,
		m.EventsJoined,
		m.CleanFallbacks,
		m.ChartsRendered,
		m.StageDuration,
		m.RunActive,
	)
	return m
}

// NewMetricsForTesting creates Metrics for tests. Registries are
// per-instance, so this is just NewMetrics under a name that keeps the
// intent obvious at call sites.
func NewMetricsForTesting() *Metrics {
	return NewMetrics()
}

// LogSummary gathers every collector and logs one line per metric, giving a
// one-shot run a durable record of its counters and timings.
func (m *Metrics) LogSummary(logger *slog.Logger) {
	families, err := m.registry.Gather()
	if err != nil {
		logger.Warn("gather metrics failed", "error", err)
		return
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			attrs := []any{"name", family.GetName()}
			for _, label := range metric.GetLabel() {
				attrs = append(attrs, label.GetName(), label.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				attrs = append(attrs, "value", metric.GetCounter().GetValue())
			case metric.GetGauge() != nil:
				attrs = append(attrs, "value", metric.GetGauge().GetValue())
			case metric.GetHistogram() != nil:
				h := metric.GetHistogram()
				attrs = append(attrs, "count", h.GetSampleCount(), "sum_seconds", h.GetSampleSum())
			}
			logger.Info("metric", attrs...)
		}
	}
}
