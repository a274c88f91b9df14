package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/buyouts-forecast/internal/domain"
	"github.com/planwise/buyouts-forecast/internal/pipeline"
	"github.com/planwise/buyouts-forecast/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func loadedStore() *service.ResultStore {
	period := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	store := service.NewResultStore()
	store.Set(&pipeline.Result{
		RunDate:  time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
		FirstRun: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		Horizon:  1,
		Assignments: []domain.Assignment{
			{SKU: "A100", Regime: domain.RegimeHighRunRate, SafetyStock: 20},
		},
		Overrides: []domain.ForecastRecord{
			{SKU: "A100", Period: period, Value: 10},
		},
	})
	return store
}

func doGET(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := NewRouter(service.NewResultStore(), nil)
	rec := doGET(t, router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEndpointsUnavailableBeforeFirstRun(t *testing.T) {
	router := NewRouter(service.NewResultStore(), nil)
	for _, path := range []string{"/api/v1/summary", "/api/v1/segments", "/api/v1/overrides/A100"} {
		rec := doGET(t, router, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}

func TestGetSummary(t *testing.T) {
	router := NewRouter(loadedStore(), nil)
	rec := doGET(t, router, "/api/v1/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var got service.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2026-08-15", got.RunDate)
	assert.Equal(t, 1, got.SKUCount)
}

func TestGetSegmentsWithFilter(t *testing.T) {
	router := NewRouter(loadedStore(), nil)

	rec := doGET(t, router, "/api/v1/segments?regime=High+Run-Rate")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Total    int                 `json:"total"`
		Segments []domain.Assignment `json:"segments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "A100", body.Segments[0].SKU)

	rec = doGET(t, router, "/api/v1/segments?regime=Seasonal+Buy-Out")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.Total)
}

func TestGetOverrides(t *testing.T) {
	router := NewRouter(loadedStore(), nil)

	rec := doGET(t, router, "/api/v1/overrides/A100")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doGET(t, router, "/api/v1/overrides/ZZZ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	parsed, allowAll := normalizeAllowedOrigins([]string{"https://a.example, https://b.example", " "})
	assert.False(t, allowAll)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, parsed)

	_, allowAll = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, allowAll)
}
