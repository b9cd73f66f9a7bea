package statmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantBreakoutBot/internal/ports"
)

func TestVolatilityFitForecastTooFewReturns(t *testing.T) {
	returns := make([]float64, volMinObservations-1)
	_, err := NewVolatilityModel().FitForecast(returns)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrInsufficientData)
}

func TestVolatilityFitForecastNoVariance(t *testing.T) {
	returns := make([]float64, 120)
	for i := range returns {
		returns[i] = 0.5
	}
	_, err := NewVolatilityModel().FitForecast(returns)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrModelFit)
}

func TestVolatilityFitForecastUnitVariance(t *testing.T) {
	// Alternating ±1 percent returns: zero mean, unit sample variance.
	// With constant squared residuals the GARCH recursion settles at the
	// sample variance, so sigma should come out near 1.
	returns := make([]float64, 120)
	for i := range returns {
		returns[i] = float64(1 - 2*(i%2))
	}
	sigma, err := NewVolatilityModel().FitForecast(returns)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sigma, 0.15)
}

func TestVolatilityFitForecastScalesWithDispersion(t *testing.T) {
	calm := make([]float64, 120)
	wild := make([]float64, 120)
	for i := range calm {
		sign := float64(1 - 2*(i%2))
		calm[i] = 0.3 * sign * (1 + 0.1*math.Sin(float64(i)))
		wild[i] = 3.0 * sign * (1 + 0.1*math.Sin(float64(i)))
	}

	sigmaCalm, err := NewVolatilityModel().FitForecast(calm)
	require.NoError(t, err)
	sigmaWild, err := NewVolatilityModel().FitForecast(wild)
	require.NoError(t, err)

	assert.Greater(t, sigmaCalm, 0.0)
	assert.Greater(t, sigmaWild, sigmaCalm)
}
