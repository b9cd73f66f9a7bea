package forecast

import (
	"context"

	"quantBreakoutBot/internal/domain"
	"quantBreakoutBot/internal/ports"
)

const (
	// trendLookback and trendHorizon parameterize the trend model call:
	// fit on the trailing closes, forecast this many steps ahead.
	trendLookback = 30
	trendHorizon  = 5
	// volLookback is the number of trailing log-returns the volatility
	// model is fitted on; returnScale converts them to percent.
	volLookback = 120
	returnScale = 100.0

	// FallbackVolatility is the canonical volatility substituted when the
	// volatility model fails. Together with TrendNeutral it forms the
	// fallback pair the scoring rubric depends on; changing it changes
	// scores, so it is a contract, not a tunable.
	FallbackVolatility = 40.0
)

// Adapter wraps the external trend and volatility models behind a single
// forecast operation with deterministic fallback.
type Adapter struct {
	trend  ports.TrendModel
	vol    ports.VolatilityModel
	logger ports.Logger
}

// New creates a forecast adapter over the two models.
func New(trend ports.TrendModel, vol ports.VolatilityModel, logger ports.Logger) *Adapter {
	return &Adapter{trend: trend, vol: vol, logger: logger}
}

// Forecast produces the trend call and volatility estimate for a frame.
// Each sub-model falls back independently on failure: a trend failure
// yields TrendNeutral without suppressing a successful volatility fit,
// and vice versa. Forecast itself never fails.
func (a *Adapter) Forecast(ctx context.Context, frame domain.IndicatorFrame) domain.Forecast {
	result := domain.Forecast{
		Trend:      domain.TrendNeutral,
		Volatility: FallbackVolatility,
	}

	closes := frame.TailCloses(trendLookback)
	mean, err := a.trend.FitForecast(closes, trendHorizon)
	if err != nil {
		a.logger.Warn(ctx, "Trend model failed, using neutral fallback", map[string]interface{}{"error": err.Error()})
	} else {
		lastClose := frame.Last().Close
		if mean > lastClose {
			result.Trend = domain.TrendBullish
		} else {
			result.Trend = domain.TrendBearish
		}
	}

	returns := frame.TailLogReturns(volLookback, returnScale)
	sigma, err := a.vol.FitForecast(returns)
	if err != nil {
		a.logger.Warn(ctx, "Volatility model failed, using fallback", map[string]interface{}{
			"error": err.Error(), "fallback": FallbackVolatility,
		})
	} else {
		result.Volatility = sigma
	}

	return result
}
