package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/couchcryptid/storm-season-report/internal/config"
	"github.com/couchcryptid/storm-season-report/internal/loader"
	"github.com/couchcryptid/storm-season-report/internal/observability"
	"github.com/couchcryptid/storm-season-report/internal/pipeline"
	"github.com/couchcryptid/storm-season-report/internal/render"
	"github.com/couchcryptid/storm-season-report/internal/report"
	"github.com/couchcryptid/storm-season-report/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the report pipeline once",
	Long: `Load the three extracts, join and clean them, and write the four chart
artifacts plus a run manifest into the output directory. With --archive, the
summary tables are additionally written to a SQLite file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		return runPipeline(cmd.Context(), cfg)
	},
}

func init() {
	runCmd.Flags().String("details", "", "path to the details CSV extract")
	runCmd.Flags().String("locations", "", "path to the locations CSV extract")
	runCmd.Flags().String("fatalities", "", "path to the fatalities CSV extract")
	runCmd.Flags().String("out", "./report", "output directory for chart artifacts")
	runCmd.Flags().String("archive", "", "optional SQLite path for the summary tables")
	runCmd.Flags().Int("top-region-categories", 10, "category count for the regional frequency chart")
	runCmd.Flags().Int("top-monthly-categories", 8, "category count for the seasonality chart")

	_ = viper.BindPFlag("details", runCmd.Flags().Lookup("details"))
	_ = viper.BindPFlag("locations", runCmd.Flags().Lookup("locations"))
	_ = viper.BindPFlag("fatalities", runCmd.Flags().Lookup("fatalities"))
	_ = viper.BindPFlag("out", runCmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("archive", runCmd.Flags().Lookup("archive"))
	_ = viper.BindPFlag("top_region_categories", runCmd.Flags().Lookup("top-region-categories"))
	_ = viper.BindPFlag("top_monthly_categories", runCmd.Flags().Lookup("top-monthly-categories"))
}

func runPipeline(parent context.Context, cfg *config.Config) error {
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	extractor := loader.New(cfg.DetailsPath, cfg.LocationsPath, cfg.FatalitiesPath, logger)
	summarizer := report.NewSummarizer(cfg.TopRegionCategories, cfg.TopMonthlyCategories)
	renderer := render.NewChartRenderer(cfg.OutDir, logger)

	var archiver pipeline.Archiver
	if cfg.ArchivePath != "" {
		archive, err := store.Open(cfg.ArchivePath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		archiver = archive
		logger.Info("archive enabled", "path", cfg.ArchivePath)
	}

	manifestPath := filepath.Join(cfg.OutDir, "manifest.yaml")
	p := pipeline.New(extractor, pipeline.JoinTransformer{}, summarizer, renderer, archiver, manifestPath, logger, metrics)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx); err != nil {
		logger.Error("pipeline failed", "error", err)
		return err
	}
	return nil
}
