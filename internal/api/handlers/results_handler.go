// internal/api/handlers/results_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planwise/buyouts-forecast/internal/service"
)

// ResultsHandler serves the latest pipeline run to planners.
type ResultsHandler struct {
	store *service.ResultStore
}

func NewResultsHandler(store *service.ResultStore) *ResultsHandler {
	return &ResultsHandler{store: store}
}

// GetSummary returns run metadata and regime counts.
func (h *ResultsHandler) GetSummary(c *gin.Context) {
	summary, ok := h.store.Summary()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no pipeline run loaded"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetSegments returns per-SKU regime and safety stock, filterable with
// ?regime=<label>.
func (h *ResultsHandler) GetSegments(c *gin.Context) {
	segments, ok := h.store.Segments(c.Query("regime"))
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no pipeline run loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":    len(segments),
		"segments": segments,
	})
}

// GetOverrides returns the horizon rows for one SKU.
func (h *ResultsHandler) GetOverrides(c *gin.Context) {
	sku := c.Param("sku")
	records, ok := h.store.Overrides(sku)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no pipeline run loaded"})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown SKU: " + sku})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sku":       sku,
		"overrides": records,
	})
}
