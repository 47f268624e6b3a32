package render

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-season-report/internal/report"
)

func sampleSummary() report.Summary {
	return report.Summary{
		GeneratedAt: time.Date(2020, 1, 15, 12, 0, 0, 0, time.UTC),
		EventCount:  3,
		Health: []report.CategoryHealth{
			{Category: "Tornado", Injuries: 15, Deaths: 5, TotalHealth: 20},
			{Category: "Hail", Injuries: 1, Deaths: 0, TotalHealth: 1},
		},
		RegionFrequency: []report.RegionCount{
			{State: "OKLAHOMA", Category: "Tornado", Count: 1},
			{State: "TEXAS", Category: "Tornado", Count: 2},
			{State: "TEXAS", Category: "Hail", Count: 1},
		},
		MonthlyFrequency: []report.MonthCount{
			{Month: "May", Category: "Tornado", Count: 2},
			{Month: "June", Category: "Tornado", Count: 1},
			{Month: "May", Category: "Hail", Count: 1},
		},
		Damage: []report.CategoryDamage{
			{Category: "Tornado", DamageUSD: 2_000_000},
			{Category: "Hail", DamageUSD: 10_500},
		},
		RegionCategories:  []string{"Tornado", "Hail"},
		MonthlyCategories: []string{"Tornado", "Hail"},
		States:            []string{"OKLAHOMA", "TEXAS"},
		Months:            []string{"May", "June"},
	}
}

func TestRender_ProducesFourArtifacts(t *testing.T) {
	dir := t.TempDir()
	r := NewChartRenderer(dir, slog.Default())

	paths, err := r.Render(sampleSummary())
	require.NoError(t, err)
	require.Len(t, paths, 4)

	expected := []string{HealthChartFile, RegionChartFile, MonthlyChartFile, DamageChartFile}
	for i, name := range expected {
		assert.Equal(t, filepath.Join(dir, name), paths[i])
		info, err := os.Stat(paths[i])
		require.NoError(t, err, "artifact %s must exist", name)
		assert.Greater(t, info.Size(), int64(0), "artifact %s must not be empty", name)
	}
}

func TestRender_DoesNotMutateSummary(t *testing.T) {
	r := NewChartRenderer(t.TempDir(), slog.Default())

	summary := sampleSummary()
	before := sampleSummary()

	_, err := r.Render(summary)
	require.NoError(t, err)

	if diff := cmp.Diff(before, summary); diff != "" {
		t.Fatalf("renderer mutated the summary (-before +after):\n%s", diff)
	}
}

func TestRender_EmptySummary(t *testing.T) {
	r := NewChartRenderer(t.TempDir(), slog.Default())

	paths, err := r.Render(report.Summary{})
	require.NoError(t, err)
	assert.Len(t, paths, 4)
}
