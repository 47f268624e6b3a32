package observability

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide; each owns its registry.
	require.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

func TestLogSummary(t *testing.T) {
	m := NewMetricsForTesting()
	m.RowsLoaded.WithLabelValues("details").Add(3)
	m.EventsJoined.Add(3)
	m.CleanFallbacks.WithLabelValues("damage").Inc()
	m.ChartsRendered.Add(4)
	m.StageDuration.WithLabelValues("extract").Observe(0.02)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m.LogSummary(logger)
	out := buf.String()

	assert.Contains(t, out, "storm_report_rows_loaded_total")
	assert.Contains(t, out, "table=details")
	assert.Contains(t, out, "storm_report_events_joined_total")
	assert.Contains(t, out, "storm_report_clean_fallbacks_total")
	assert.Contains(t, out, "kind=damage")
	assert.Contains(t, out, "storm_report_charts_rendered_total")
	assert.Contains(t, out, "value=4")
	assert.Contains(t, out, "storm_report_stage_duration_seconds")
	assert.Contains(t, out, "stage=extract")
	assert.Contains(t, out, "count=1")
}

func TestLogSummary_UntouchedMetrics(t *testing.T) {
	m := NewMetricsForTesting()

	var buf bytes.Buffer
	m.LogSummary(slog.New(slog.NewTextHandler(&buf, nil)))

	// Plain counters and gauges always carry a sample; vecs gain one per
	// label set touched, so an untouched vec stays out of the summary.
	assert.Contains(t, buf.String(), "storm_report_run_active")
	assert.Contains(t, buf.String(), "storm_report_events_joined_total")
	assert.NotContains(t, buf.String(), "storm_report_rows_loaded_total")
}
