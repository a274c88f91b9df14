// internal/domain/models.go
package domain

import "time"

// Regime is the demand-behavior segment assigned to a SKU for one run.
type Regime string

const (
	RegimeTrueBuyOut         Regime = "True Buy-Out"
	RegimeEmergingBuyOut     Regime = "Emerging Buy-Out"
	RegimeHighRunRate        Regime = "High Run-Rate"
	RegimeSeasonalBuyOut     Regime = "Seasonal Buy-Out"
	RegimeSpikeDrivenBuyOut  Regime = "Spike-Driven Buy-Out"
	RegimeIntermittentBuyOut Regime = "Intermittent Buy-Out"
)

// Regimes lists every segment label in classification priority order.
var Regimes = []Regime{
	RegimeTrueBuyOut,
	RegimeEmergingBuyOut,
	RegimeHighRunRate,
	RegimeSeasonalBuyOut,
	RegimeSpikeDrivenBuyOut,
	RegimeIntermittentBuyOut,
}

// Item is immutable SKU reference data.
type Item struct {
	SKU         string `json:"sku"`
	Description string `json:"description"`
}

// Observation is one (SKU, month, quantity) demand record.
// Date is always truncated to the first day of its month.
type Observation struct {
	SKU  string    `json:"sku"`
	Date time.Time `json:"date"`
	Qty  float64   `json:"qty"`
}

// Series is a single SKU's demand history ordered by month.
type Series struct {
	SKU    string
	Points []Observation
}

// Assignment is the per-SKU output of segmentation and safety-stock derivation.
type Assignment struct {
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Regime      Regime  `json:"regime"`
	SafetyStock int     `json:"safety_stock"`
	Median12    float64 `json:"median12"`
}

// ForecastRecord is one (SKU, future period) point forecast. Value holds the
// raw model output before capping and the final override after capping.
type ForecastRecord struct {
	SKU    string    `json:"sku"`
	Period time.Time `json:"period"`
	Value  float64   `json:"value"`
}

// AnnualFrequency counts hit months per calendar year for one SKU.
type AnnualFrequency struct {
	SKU    string
	Counts map[int]int // year -> number of months with Qty > 0
}
