// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/planwise/buyouts-forecast/internal/config"
	"github.com/planwise/buyouts-forecast/internal/domain"
	"github.com/planwise/buyouts-forecast/internal/forecast"
	"github.com/planwise/buyouts-forecast/internal/override"
	"github.com/planwise/buyouts-forecast/internal/safetystock"
	"github.com/planwise/buyouts-forecast/internal/segment"
	"github.com/planwise/buyouts-forecast/internal/timeseries"
	"github.com/planwise/buyouts-forecast/pkg/logger"
)

// Inputs is the in-memory tabular data the pipeline consumes from the input
// adapters.
type Inputs struct {
	Observations []domain.Observation
	Items        []domain.Item
	LeadTimeDays map[string]float64
}

// Result is everything one run produces for the output adapters. All fields
// are value data owned by the run; nothing is shared across runs.
type Result struct {
	RunDate       time.Time
	FirstRun      time.Time
	Horizon       int
	ReferenceYear int

	Assignments []domain.Assignment      // per SKU, sorted by SKU
	Overrides   []domain.ForecastRecord  // per SKU x horizon period, capped
	Series      map[string]*domain.Series
	Frequencies map[string]domain.AnnualFrequency
}

// Pipeline runs the segmentation -> safety-stock -> forecast -> cap chain as
// a single deterministic batch over all SKUs.
type Pipeline struct {
	cfg        config.ForecastConfig
	workers    int
	classifier *segment.Classifier
	router     *forecast.Router
	engine     *override.Engine
}

// New builds a pipeline from the tuning surface. The forecasting models are
// constructed here; swap them by constructing the router directly in tests.
func New(cfg config.ForecastConfig, workers int) *Pipeline {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:     cfg,
		workers: workers,
		classifier: segment.NewClassifier(segment.Thresholds{
			ContRatio: cfg.ContRatio,
			MinHits:   cfg.MinHits,
		}),
		router: forecast.NewRouter(
			forecast.NewSeasonalSmoothing(cfg.SeasonLength),
			forecast.NewTSB(cfg.AlphaDemand, cfg.AlphaProb),
		),
		engine: override.NewEngine(cfg.CapMult),
	}
}

// skuDerived holds everything computed per SKU in the parallel pass.
type skuDerived struct {
	stats     segment.Stats
	regime    domain.Regime
	median12  float64
	lastKnown float64
}

// Run executes one full pass. It is idempotent for a given run date and
// input and always covers every SKU present in history.
func (p *Pipeline) Run(ctx context.Context, runDate time.Time, in Inputs) (*Result, error) {
	if len(in.Observations) == 0 {
		return nil, fmt.Errorf("pipeline: usage history is empty")
	}

	cal := timeseries.NewCalendar(runDate, p.cfg.Horizon)
	series := timeseries.Build(in.Observations, cal)

	skus := make([]string, 0, len(series))
	for sku := range series {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	logger.Log.Info().
		Int("skus", len(skus)).
		Str("first_run", cal.FirstRun.Format("2006-01")).
		Int("horizon", cal.Horizon).
		Msg("pipeline run started")

	// Per-SKU statistics and classification are independent; fan out across
	// a bounded worker group writing to disjoint slice slots.
	derived := make([]skuDerived, len(skus))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, sku := range skus {
		i, sku := i, sku
		g.Go(func() error {
			s := series[sku]
			st := segment.ComputeStats(s, cal)
			derived[i] = skuDerived{
				stats:     st,
				regime:    p.classifier.Classify(st),
				median12:  segment.Median12(s, cal, p.cfg.WinsorizeMedian),
				lastKnown: timeseries.LastKnownActual(s, cal),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	regimes := make(map[string]domain.Regime, len(skus))
	median12 := make(map[string]float64, len(skus))
	lastKnown := make(map[string]float64, len(skus))
	for i, sku := range skus {
		regimes[sku] = derived[i].regime
		median12[sku] = derived[i].median12
		lastKnown[sku] = derived[i].lastKnown
	}

	freqs := timeseries.AnnualFrequencies(series)
	oneOff := safetystock.OneOffSKUs(freqs, cal.ReferenceYear())
	calc := safetystock.NewCalculator(in.LeadTimeDays, oneOff)

	descriptions := make(map[string]string, len(in.Items))
	for _, item := range in.Items {
		descriptions[item.SKU] = item.Description
	}

	assignments := make([]domain.Assignment, len(skus))
	for i, sku := range skus {
		d := derived[i]
		assignments[i] = domain.Assignment{
			SKU:         sku,
			Description: descriptions[sku],
			Regime:      d.regime,
			SafetyStock: calc.Compute(sku, d.regime, d.median12, d.stats.MaxQty),
			Median12:    d.median12,
		}
	}

	records := p.router.Run(series, regimes, median12, cal)
	p.engine.ApplyAll(records, regimes, median12, lastKnown)

	logger.Log.Info().
		Int("assignments", len(assignments)).
		Int("override_rows", len(records)).
		Msg("pipeline run completed")

	return &Result{
		RunDate:       runDate,
		FirstRun:      cal.FirstRun,
		Horizon:       cal.Horizon,
		ReferenceYear: cal.ReferenceYear(),
		Assignments:   assignments,
		Overrides:     records,
		Series:        series,
		Frequencies:   freqs,
	}, nil
}
