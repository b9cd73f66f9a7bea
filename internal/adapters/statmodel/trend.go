// Package statmodel provides the reference implementations of the trend
// and volatility collaborators. The engine only sees the ports contracts;
// either model can be swapped for an external service without touching
// decision logic.
package statmodel

import (
	"fmt"
	"math"

	"quantBreakoutBot/internal/ports"
)

const trendMinObservations = 30

// TrendModel forecasts the price path with an autoregressive model on
// first differences: the series is differenced once for stationarity and
// the differences follow d_t = c + phi*d_{t-1}.
type TrendModel struct{}

// NewTrendModel creates the AR trend model.
func NewTrendModel() *TrendModel { return &TrendModel{} }

// FitForecast fits on the close prices (oldest first) and returns the
// mean of the forecast path over the given horizon.
func (m *TrendModel) FitForecast(closes []float64, horizon int) (float64, error) {
	if horizon <= 0 {
		return 0, fmt.Errorf("%w: horizon must be positive", ports.ErrInvalidRequest)
	}
	if len(closes) < trendMinObservations {
		return 0, fmt.Errorf("%w: trend fit needs %d closes, got %d",
			ports.ErrInsufficientData, trendMinObservations, len(closes))
	}

	diffs := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		diffs[i-1] = closes[i] - closes[i-1]
	}

	c, phi, err := fitAR1(diffs)
	if err != nil {
		return 0, err
	}

	// Roll the fitted process forward and accumulate the implied levels.
	level := closes[len(closes)-1]
	dPrev := diffs[len(diffs)-1]
	var sum float64
	for k := 0; k < horizon; k++ {
		dNext := c + phi*dPrev
		level += dNext
		sum += level
		dPrev = dNext
	}
	return sum / float64(horizon), nil
}

// fitAR1 estimates d_t = c + phi*d_{t-1} by least squares.
func fitAR1(diffs []float64) (c, phi float64, err error) {
	n := len(diffs) - 1 // number of (lag, value) pairs
	if n < 2 {
		return 0, 0, fmt.Errorf("%w: too few differences for AR fit", ports.ErrInsufficientData)
	}

	var meanX, meanY float64
	for t := 1; t < len(diffs); t++ {
		meanX += diffs[t-1]
		meanY += diffs[t]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX float64
	for t := 1; t < len(diffs); t++ {
		dx := diffs[t-1] - meanX
		cov += dx * (diffs[t] - meanY)
		varX += dx * dx
	}
	if varX == 0 {
		return 0, 0, fmt.Errorf("%w: constant differences, AR coefficient undefined", ports.ErrModelFit)
	}

	phi = cov / varX
	// Clamp away from the unit root so the forecast path stays finite.
	if phi > 0.999 {
		phi = 0.999
	} else if phi < -0.999 {
		phi = -0.999
	}
	if math.IsNaN(phi) || math.IsInf(phi, 0) {
		return 0, 0, fmt.Errorf("%w: AR coefficient did not converge", ports.ErrModelFit)
	}
	c = meanY - phi*meanX
	return c, phi, nil
}
