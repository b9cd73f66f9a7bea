package domain

import "time"

// OrderSide represents the side of an order (BUY or SELL).
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// RiskLevels holds the computed stop-loss and take-profit prices for an
// entry. For any volatility > 0: StopLoss < entry price < TakeProfit.
type RiskLevels struct {
	StopLoss   float64
	TakeProfit float64
}

// Position is an open position as reported by the brokerage. The engine
// never caches these; they are re-queried from the brokerage on every
// check because fills and closures can happen outside its control.
type Position struct {
	Symbol     string
	Quantity   float64 // Positive for long, negative for short
	EntryPrice float64
	MarkPrice  float64
	UpdatedAt  time.Time
}

// BracketOrder describes a market entry with attached stop-loss and
// take-profit legs, submitted as one unit.
type BracketOrder struct {
	Symbol     string
	Side       OrderSide
	Quantity   int64 // Whole units; 0 means no order
	StopLoss   float64
	TakeProfit float64
}
