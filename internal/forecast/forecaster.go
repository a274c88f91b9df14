// internal/forecast/forecaster.go
package forecast

import "errors"

// ErrCannotFit signals that a model cannot produce a forecast for a given
// series or parameterization. The router recovers from it per SKU; it never
// escapes the router boundary.
var ErrCannotFit = errors.New("forecast: model cannot fit series")

// Forecaster fits a single per-item series and returns h future point
// forecasts, or signals inability to fit. Implementations consume the series
// as consecutive monthly quantities ending at the run month.
type Forecaster interface {
	Name() string
	Forecast(qty []float64, h int) ([]float64, error)
}
