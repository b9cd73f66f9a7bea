package statmodel

import (
	"fmt"
	"math"

	"quantBreakoutBot/internal/ports"
)

const (
	volMinObservations = 30
	varianceFloor      = 1e-12
)

// Grid searched in the quasi-likelihood fit. Omega is tied to the sample
// variance (variance targeting), so only the two persistence parameters
// are free.
var (
	garchAlphas = []float64{0.02, 0.05, 0.08, 0.12, 0.16, 0.20}
	garchBetas  = []float64{0.70, 0.75, 0.80, 0.85, 0.90, 0.95}
)

// VolatilityModel is a GARCH(1,1) conditional-volatility model fitted by
// Gaussian quasi-likelihood over a parameter grid.
type VolatilityModel struct{}

// NewVolatilityModel creates the GARCH volatility model.
func NewVolatilityModel() *VolatilityModel { return &VolatilityModel{} }

// FitForecast fits on the returns (oldest first, percent-scaled) and
// returns the one-step-ahead forecast standard deviation.
func (m *VolatilityModel) FitForecast(returns []float64) (float64, error) {
	if len(returns) < volMinObservations {
		return 0, fmt.Errorf("%w: volatility fit needs %d returns, got %d",
			ports.ErrInsufficientData, volMinObservations, len(returns))
	}

	// Work on demeaned returns.
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	resid := make([]float64, len(returns))
	var sampleVar float64
	for i, r := range returns {
		resid[i] = r - mean
		sampleVar += resid[i] * resid[i]
	}
	sampleVar /= float64(len(returns))
	if sampleVar < varianceFloor {
		return 0, fmt.Errorf("%w: returns have no variance", ports.ErrModelFit)
	}

	bestLL := math.Inf(-1)
	var bestAlpha, bestBeta float64
	for _, alpha := range garchAlphas {
		for _, beta := range garchBetas {
			if alpha+beta >= 0.999 {
				continue
			}
			ll := quasiLogLikelihood(resid, sampleVar, alpha, beta)
			if ll > bestLL {
				bestLL, bestAlpha, bestBeta = ll, alpha, beta
			}
		}
	}
	if math.IsInf(bestLL, -1) {
		return 0, fmt.Errorf("%w: no admissible GARCH parameters", ports.ErrModelFit)
	}

	omega := sampleVar * (1 - bestAlpha - bestBeta)
	h := sampleVar
	for t := 1; t < len(resid); t++ {
		h = omega + bestAlpha*resid[t-1]*resid[t-1] + bestBeta*h
	}
	last := resid[len(resid)-1]
	hNext := omega + bestAlpha*last*last + bestBeta*h
	if hNext <= 0 || math.IsNaN(hNext) {
		return 0, fmt.Errorf("%w: forecast variance is not positive", ports.ErrModelFit)
	}
	return math.Sqrt(hNext), nil
}

func quasiLogLikelihood(resid []float64, sampleVar, alpha, beta float64) float64 {
	omega := sampleVar * (1 - alpha - beta)
	h := sampleVar
	var ll float64
	for t := 1; t < len(resid); t++ {
		h = omega + alpha*resid[t-1]*resid[t-1] + beta*h
		if h < varianceFloor {
			h = varianceFloor
		}
		ll -= 0.5 * (math.Log(h) + resid[t]*resid[t]/h)
	}
	return ll
}
