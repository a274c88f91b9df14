// internal/service/result_store.go
package service

import (
	"sync"

	"github.com/planwise/buyouts-forecast/internal/domain"
	"github.com/planwise/buyouts-forecast/internal/pipeline"
)

// Summary is the run-level view served to planners.
type Summary struct {
	RunDate      string         `json:"run_date"`
	FirstRun     string         `json:"first_run"`
	Horizon      int            `json:"horizon"`
	SKUCount     int            `json:"sku_count"`
	RegimeCounts map[string]int `json:"regime_counts"`
}

// ResultStore holds the latest pipeline result in memory for the read-only
// API. There is no cross-run persistence; a restart re-runs the pipeline.
type ResultStore struct {
	mu             sync.RWMutex
	result         *pipeline.Result
	overridesBySKU map[string][]domain.ForecastRecord
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Set replaces the stored result and rebuilds the per-SKU override index.
func (s *ResultStore) Set(res *pipeline.Result) {
	bySKU := make(map[string][]domain.ForecastRecord)
	for _, r := range res.Overrides {
		bySKU[r.SKU] = append(bySKU[r.SKU], r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
	s.overridesBySKU = bySKU
}

// Summary returns run metadata and regime counts, false when no run is
// loaded yet.
func (s *ResultStore) Summary() (Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return Summary{}, false
	}

	counts := make(map[string]int, len(domain.Regimes))
	for _, a := range s.result.Assignments {
		counts[string(a.Regime)]++
	}
	return Summary{
		RunDate:      s.result.RunDate.Format("2006-01-02"),
		FirstRun:     s.result.FirstRun.Format("2006-01"),
		Horizon:      s.result.Horizon,
		SKUCount:     len(s.result.Assignments),
		RegimeCounts: counts,
	}, true
}

// Segments returns the per-SKU assignments, optionally filtered by regime
// label.
func (s *ResultStore) Segments(regime string) ([]domain.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return nil, false
	}
	if regime == "" {
		out := make([]domain.Assignment, len(s.result.Assignments))
		copy(out, s.result.Assignments)
		return out, true
	}

	var out []domain.Assignment
	for _, a := range s.result.Assignments {
		if string(a.Regime) == regime {
			out = append(out, a)
		}
	}
	return out, true
}

// Overrides returns the horizon rows for one SKU; the second return is false
// when no run is loaded, and an empty slice means an unknown SKU.
func (s *ResultStore) Overrides(sku string) ([]domain.ForecastRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return nil, false
	}
	records := s.overridesBySKU[sku]
	out := make([]domain.ForecastRecord, len(records))
	copy(out, records)
	return out, true
}
