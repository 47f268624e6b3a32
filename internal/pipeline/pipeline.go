// Package pipeline wires the report stages into a single one-shot run:
// extract, transform, summarize, render, archive.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-season-report/internal/dataset"
	"github.com/couchcryptid/storm-season-report/internal/domain"
	"github.com/couchcryptid/storm-season-report/internal/observability"
	"github.com/couchcryptid/storm-season-report/internal/report"
)

// Extractor loads the three raw tables.
type Extractor interface {
	Extract() (dataset.Tables, error)
}

// Transformer joins and cleans the raw tables into events.
type Transformer interface {
	Transform(tables dataset.Tables) []domain.Event
}

// Summarizer reduces events into the four summary tables.
type Summarizer interface {
	Summarize(events []domain.Event) report.Summary
}

// Renderer projects a summary into chart artifacts, returning their paths.
type Renderer interface {
	Render(summary report.Summary) ([]string, error)
}

// Archiver persists a summary to a machine-readable artifact.
type Archiver interface {
	Save(summary report.Summary) error
}

// JoinTransformer is the production Transformer, backed by dataset.Join.
type JoinTransformer struct{}

func (JoinTransformer) Transform(tables dataset.Tables) []domain.Event {
	return dataset.Join(tables)
}

// Pipeline executes the stages once, in order, aborting on the first error.
type Pipeline struct {
	extractor    Extractor
	transformer  Transformer
	summarizer   Summarizer
	renderer     Renderer
	archiver     Archiver // nil disables archiving
	manifestPath string
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// New creates a Pipeline. archiver may be nil; manifestPath may be empty to
// skip the run manifest.
func New(e Extractor, t Transformer, s Summarizer, r Renderer, a Archiver, manifestPath string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:    e,
		transformer:  t,
		summarizer:   s,
		renderer:     r,
		archiver:     a,
		manifestPath: manifestPath,
		logger:       logger,
		metrics:      metrics,
	}
}

// Run executes one extract-transform-summarize-render pass. The context is
// checked between stages; there is no retry, matching the one-shot contract.
func (p *Pipeline) Run(ctx context.Context) error {
	p.metrics.RunActive.Set(1)
	defer p.metrics.RunActive.Set(0)
	p.logger.Info("pipeline started")

	tables, err := p.extract(ctx)
	if err != nil {
		return err
	}

	events, err := p.transform(ctx, tables)
	if err != nil {
		return err
	}

	summary, err := p.summarize(ctx, events)
	if err != nil {
		return err
	}

	artifacts, err := p.render(ctx, summary)
	if err != nil {
		return err
	}

	if p.archiver != nil {
		start := time.Now()
		if err := p.archiver.Save(summary); err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		p.observe("archive", start)
	}

	if p.manifestPath != "" {
		m := report.Manifest{
			GeneratedAt: summary.GeneratedAt,
			Inputs: report.ManifestInputs{
				Details:    len(tables.Details),
				Locations:  len(tables.Locations),
				Fatalities: len(tables.Fatalities),
			},
			Events:    summary.EventCount,
			Artifacts: artifacts,
		}
		if err := report.WriteManifest(p.manifestPath, m); err != nil {
			return err
		}
	}

	p.logger.Info("pipeline finished",
		"events", summary.EventCount,
		"categories", len(summary.Health),
		"artifacts", len(artifacts),
	)
	// Drop the gauge before gathering so the logged value reflects the
	// finished run; the deferred Set(0) is then a no-op.
	p.metrics.RunActive.Set(0)
	p.metrics.LogSummary(p.logger)
	return nil
}

func (p *Pipeline) extract(ctx context.Context) (dataset.Tables, error) {
	if err := ctx.Err(); err != nil {
		return dataset.Tables{}, err
	}
	start := time.Now()

	tables, err := p.extractor.Extract()
	if err != nil {
		return dataset.Tables{}, fmt.Errorf("extract: %w", err)
	}
	p.observe("extract", start)

	p.metrics.RowsLoaded.WithLabelValues("details").Add(float64(len(tables.Details)))
	p.metrics.RowsLoaded.WithLabelValues("locations").Add(float64(len(tables.Locations)))
	p.metrics.RowsLoaded.WithLabelValues("fatalities").Add(float64(len(tables.Fatalities)))
	return tables, nil
}

func (p *Pipeline) transform(ctx context.Context, tables dataset.Tables) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	events := p.transformer.Transform(tables)
	p.observe("transform", start)

	monthsAbsent := 0
	for _, e := range events {
		if e.Month == "" {
			monthsAbsent++
		}
	}
	damageFallbacks := 0
	for _, rec := range tables.Details {
		if domain.DamageFallback(rec.DamageProperty) {
			damageFallbacks++
		}
	}

	p.metrics.EventsJoined.Add(float64(len(events)))
	p.metrics.CleanFallbacks.WithLabelValues("timestamp").Add(float64(monthsAbsent))
	p.metrics.CleanFallbacks.WithLabelValues("damage").Add(float64(damageFallbacks))

	if monthsAbsent > 0 {
		p.logger.Warn("events without parseable begin time excluded from seasonality", "count", monthsAbsent)
	}
	if damageFallbacks > 0 {
		p.logger.Warn("damage values without numeric magnitude treated as zero", "count", damageFallbacks)
	}
	return events, nil
}

func (p *Pipeline) summarize(ctx context.Context, events []domain.Event) (report.Summary, error) {
	if err := ctx.Err(); err != nil {
		return report.Summary{}, err
	}
	start := time.Now()

	summary := p.summarizer.Summarize(events)
	p.observe("summarize", start)
	return summary, nil
}

func (p *Pipeline) render(ctx context.Context, summary report.Summary) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	artifacts, err := p.renderer.Render(summary)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	p.observe("render", start)

	p.metrics.ChartsRendered.Add(float64(len(artifacts)))
	return artifacts, nil
}

func (p *Pipeline) observe(stage string, start time.Time) {
	elapsed := time.Since(start)
	p.metrics.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	p.logger.Debug("stage complete", "stage", stage, "duration", elapsed)
}
