package risk

import (
	"math"

	"quantBreakoutBot/internal/domain"
)

// Risk-band constants. Like the scoring rubric these are contractual:
// the stop distance scales the projected volatility, and a confident
// probability widens the take-profit leg.
const (
	distanceMultiplier = 1.5
	tpSpread           = 2.0
	probConfident      = 0.70
	tpBoost            = 1.3
)

// Levels converts the volatility forecast and success probability into
// stop-loss and take-profit prices around the entry. For any
// volatility > 0: StopLoss < price < TakeProfit.
func Levels(price, volatility, probability float64) domain.RiskLevels {
	distance := (volatility / 100) * distanceMultiplier

	tpFactor := 1.0
	if probability > probConfident {
		tpFactor = tpBoost
	}

	return domain.RiskLevels{
		StopLoss:   roundCents(price * (1 - distance)),
		TakeProfit: roundCents(price * (1 + distance*tpSpread*tpFactor)),
	}
}

// Quantity sizes the position: floor(cash * riskFraction / price) whole
// units. Zero means no order is placed this cycle; that is a valid
// outcome, not an error.
func Quantity(cash, riskFraction, price float64) int64 {
	if price <= 0 || cash <= 0 || riskFraction <= 0 {
		return 0
	}
	return int64(math.Floor(cash * riskFraction / price))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
