// Package render projects summary tables into HTML chart artifacts.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/storm-season-report/internal/report"
)

// Artifact file names, one per summary table.
const (
	HealthChartFile  = "health_totals.html"
	RegionChartFile  = "region_frequency.html"
	MonthlyChartFile = "monthly_frequency.html"
	DamageChartFile  = "damage_totals.html"
)

// ChartRenderer writes the four report charts into an output directory.
// Rendering is a pure projection: the summary is never mutated or filtered.
type ChartRenderer struct {
	outDir string
	logger *slog.Logger
}

// NewChartRenderer creates a renderer targeting outDir, creating it if needed.
func NewChartRenderer(outDir string, logger *slog.Logger) *ChartRenderer {
	return &ChartRenderer{outDir: outDir, logger: logger}
}

// Render emits all four chart artifacts and returns their paths.
func (r *ChartRenderer) Render(summary report.Summary) ([]string, error) {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	artifacts := []struct {
		file  string
		build func(report.Summary) renderable
	}{
		{HealthChartFile, healthChart},
		{RegionChartFile, regionChart},
		{MonthlyChartFile, monthlyChart},
		{DamageChartFile, damageChart},
	}

	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(r.outDir, a.file)
		if err := writeChart(path, a.build(summary)); err != nil {
			return nil, err
		}
		r.logger.Info("chart rendered", "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// renderable is the slice of the go-echarts chart API the writer needs.
type renderable interface {
	Render(w io.Writer) error
}

func writeChart(path string, chart renderable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

// healthChart stacks injuries and deaths per event type, ordered by combined
// total as computed by the summary.
func healthChart(s report.Summary) renderable {
	categories := make([]string, 0, len(s.Health))
	injuries := make([]opts.BarData, 0, len(s.Health))
	deaths := make([]opts.BarData, 0, len(s.Health))
	for _, row := range s.Health {
		categories = append(categories, row.Category)
		injuries = append(injuries, opts.BarData{Value: row.Injuries})
		deaths = append(deaths, opts.BarData{Value: row.Deaths})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Health impact by event type",
			Subtitle: "Direct plus indirect injuries and deaths",
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Health impact"}),
	)
	bar.SetXAxis(categories).
		AddSeries("Injuries", injuries, charts.WithBarChartOpts(opts.BarChart{Stack: "health"})).
		AddSeries("Deaths", deaths, charts.WithBarChartOpts(opts.BarChart{Stack: "health"}))
	return bar
}

// regionChart is a state-by-category heatmap over the most frequent
// categories.
func regionChart(s report.Summary) renderable {
	stateIndex := indexOf(s.States)
	categoryIndex := indexOf(s.RegionCategories)

	cells := make([]opts.HeatMapData, 0, len(s.RegionFrequency))
	maxCount := 0
	for _, row := range s.RegionFrequency {
		cells = append(cells, opts.HeatMapData{
			Value: [3]interface{}{stateIndex[row.State], categoryIndex[row.Category], row.Count},
		})
		if row.Count > maxCount {
			maxCount = row.Count
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Event frequency by state",
			Subtitle: fmt.Sprintf("Top %d event types", len(s.RegionCategories)),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Regional frequency"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: s.RegionCategories}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxCount),
		}),
	)
	hm.SetXAxis(s.States).AddSeries("events", cells)
	return hm
}

// monthlyChart stacks the most frequent categories across calendar months.
func monthlyChart(s report.Summary) renderable {
	counts := make(map[[2]string]int, len(s.MonthlyFrequency))
	for _, row := range s.MonthlyFrequency {
		counts[[2]string{row.Month, row.Category}] = row.Count
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Seasonality of storm events",
			Subtitle: fmt.Sprintf("Monthly counts for the top %d event types", len(s.MonthlyCategories)),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Seasonality"}),
	)
	bar.SetXAxis(s.Months)
	for _, category := range s.MonthlyCategories {
		data := make([]opts.BarData, 0, len(s.Months))
		for _, month := range s.Months {
			data = append(data, opts.BarData{Value: counts[[2]string{month, category}]})
		}
		bar.AddSeries(category, data, charts.WithBarChartOpts(opts.BarChart{Stack: "months"}))
	}
	return bar
}

// damageChart shows total property damage per event type, descending.
func damageChart(s report.Summary) renderable {
	categories := make([]string, 0, len(s.Damage))
	data := make([]opts.BarData, 0, len(s.Damage))
	for _, row := range s.Damage {
		categories = append(categories, row.Category)
		data = append(data, opts.BarData{Value: row.DamageUSD})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Property damage by event type",
			Subtitle: "USD, parsed from damage magnitude suffixes",
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Property damage"}),
	)
	bar.SetXAxis(categories).AddSeries("Damage (USD)", data)
	return bar
}

func indexOf(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		m[v] = i
	}
	return m
}
