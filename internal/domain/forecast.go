package domain

// Trend is the directional call produced by the trend model.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
)

// Forecast combines the trend call with the one-step-ahead volatility
// estimate (annualized-scale, percent units).
type Forecast struct {
	Trend      Trend
	Volatility float64
}
