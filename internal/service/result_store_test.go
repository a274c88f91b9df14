package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/buyouts-forecast/internal/domain"
	"github.com/planwise/buyouts-forecast/internal/pipeline"
)

func storedResult() *pipeline.Result {
	period := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	return &pipeline.Result{
		RunDate:  time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
		FirstRun: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		Horizon:  2,
		Assignments: []domain.Assignment{
			{SKU: "A100", Regime: domain.RegimeHighRunRate, SafetyStock: 20},
			{SKU: "B200", Regime: domain.RegimeTrueBuyOut},
		},
		Overrides: []domain.ForecastRecord{
			{SKU: "A100", Period: period, Value: 10},
			{SKU: "A100", Period: period.AddDate(0, 1, 0), Value: 10},
			{SKU: "B200", Period: period, Value: 0},
			{SKU: "B200", Period: period.AddDate(0, 1, 0), Value: 0},
		},
	}
}

func TestStoreEmptyUntilSet(t *testing.T) {
	store := NewResultStore()

	_, ok := store.Summary()
	assert.False(t, ok)
	_, ok = store.Segments("")
	assert.False(t, ok)
	_, ok = store.Overrides("A100")
	assert.False(t, ok)
}

func TestStoreSummary(t *testing.T) {
	store := NewResultStore()
	store.Set(storedResult())

	got, ok := store.Summary()
	require.True(t, ok)
	assert.Equal(t, "2026-08-15", got.RunDate)
	assert.Equal(t, "2026-08", got.FirstRun)
	assert.Equal(t, 2, got.SKUCount)
	assert.Equal(t, 1, got.RegimeCounts[string(domain.RegimeHighRunRate)])
	assert.Equal(t, 1, got.RegimeCounts[string(domain.RegimeTrueBuyOut)])
}

func TestStoreSegmentsFilter(t *testing.T) {
	store := NewResultStore()
	store.Set(storedResult())

	all, ok := store.Segments("")
	require.True(t, ok)
	assert.Len(t, all, 2)

	high, ok := store.Segments(string(domain.RegimeHighRunRate))
	require.True(t, ok)
	require.Len(t, high, 1)
	assert.Equal(t, "A100", high[0].SKU)

	none, ok := store.Segments("not a regime")
	require.True(t, ok)
	assert.Empty(t, none)
}

func TestStoreOverridesPerSKU(t *testing.T) {
	store := NewResultStore()
	store.Set(storedResult())

	recs, ok := store.Overrides("A100")
	require.True(t, ok)
	require.Len(t, recs, 2)
	assert.Equal(t, 10.0, recs[0].Value)

	unknown, ok := store.Overrides("ZZZ")
	require.True(t, ok)
	assert.Empty(t, unknown)
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewResultStore()
	store.Set(storedResult())

	segs, _ := store.Segments("")
	segs[0].SKU = "mutated"
	again, _ := store.Segments("")
	assert.Equal(t, "A100", again[0].SKU)
}
