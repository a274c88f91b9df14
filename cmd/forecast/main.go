// cmd/forecast/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/planwise/buyouts-forecast/internal/burndown"
	"github.com/planwise/buyouts-forecast/internal/config"
	"github.com/planwise/buyouts-forecast/internal/ingest"
	"github.com/planwise/buyouts-forecast/internal/pipeline"
	"github.com/planwise/buyouts-forecast/internal/report"
	"github.com/planwise/buyouts-forecast/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err == nil {
		logger.Log.Debug().Msg("loaded .env file")
	}
	cfg := config.Load()
	logger.SetLevel(cfg.Pipeline.LogLevel)

	app := &cli.App{
		Name:  "forecast",
		Usage: "Classify SKU demand, derive safety stock and produce capped forecast overrides",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the full segmentation, safety-stock and forecast pipeline",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "raw-file",
						Usage:   "Historical usage workbook (xlsx or csv)",
						Value:   cfg.Files.RawFile,
						EnvVars: []string{"RAW_FILE"},
					},
					&cli.StringFlag{
						Name:    "leadtime-file",
						Usage:   "Lead-time workbook (SKU, Leadtime Level in days)",
						Value:   cfg.Files.LeadTimeFile,
						EnvVars: []string{"LEADTIME_FILE"},
					},
					&cli.StringFlag{
						Name:    "out-file",
						Usage:   "Output workbook path",
						Value:   cfg.Files.OutFile,
						EnvVars: []string{"OUT_FILE"},
					},
					&cli.StringFlag{
						Name:  "run-date",
						Usage: "Run date (YYYY-MM-DD), defaults to today",
					},
					&cli.IntFlag{
						Name:    "horizon",
						Usage:   "Number of future months to forecast",
						Value:   cfg.Forecast.Horizon,
						EnvVars: []string{"HORIZON"},
					},
					&cli.Float64Flag{
						Name:    "cap-mult",
						Usage:   "Cap multiplier, 1.00 = hard cap",
						Value:   cfg.Forecast.CapMult,
						EnvVars: []string{"CAP_MULT"},
					},
				},
				Action: runPipeline,
			},
			{
				Name:  "burndown",
				Usage: "Compute excess-to-safety-stock burn-down categories",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "inventory-file",
						Usage:    "Inventory detail workbook",
						Required: true,
						EnvVars:  []string{"INVENTORY_FILE"},
					},
					&cli.StringFlag{
						Name:    "out-file",
						Usage:   "Output workbook path",
						Value:   "./data/output/inventory_burndown.xlsx",
						EnvVars: []string{"BURNDOWN_OUT_FILE"},
					},
					&cli.Float64Flag{
						Name:  "safety-stock",
						Usage: "Flat safety-stock floor applied to every item",
						Value: 50,
					},
				},
				Action: runBurndown,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

func runPipeline(c *cli.Context) error {
	cfg := config.Load()
	forecastCfg := cfg.Forecast
	forecastCfg.Horizon = c.Int("horizon")
	forecastCfg.CapMult = c.Float64("cap-mult")

	runDate := time.Now()
	if v := c.String("run-date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("invalid run date %q: %w", v, err)
		}
		runDate = parsed
	}

	inputs, err := ingest.LoadInputs(c.Context, c.String("raw-file"), c.String("leadtime-file"))
	if err != nil {
		return err
	}

	result, err := pipeline.New(forecastCfg, cfg.Pipeline.WorkerCount).Run(c.Context, runDate, inputs)
	if err != nil {
		return err
	}

	outFile := c.String("out-file")
	if err := report.WriteWorkbook(outFile, result); err != nil {
		return err
	}

	logger.Log.Info().Str("file", outFile).Msg("workbook written")
	return nil
}

func runBurndown(c *cli.Context) error {
	items, years, err := ingest.LoadInventory(c.String("inventory-file"))
	if err != nil {
		return err
	}

	floor := c.Float64("safety-stock")
	rows := burndown.Analyze(items, func(string) float64 { return floor }, years)

	outFile := c.String("out-file")
	if err := report.WriteBurndown(outFile, rows); err != nil {
		return err
	}

	for category, count := range burndown.Summary(rows) {
		logger.Log.Info().Str("category", category).Int("items", count).Msg("burn-down tier")
	}
	logger.Log.Info().Str("file", outFile).Msg("workbook written")
	return nil
}
