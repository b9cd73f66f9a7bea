package domain

import "time"

// Outcome classifies how the evaluation of one candidate ended. Every
// candidate processed in a cycle resolves to exactly one outcome, which
// separates expected skips from genuine failures.
type Outcome string

const (
	OutcomeOrdered        Outcome = "ORDERED"         // Bracket order submitted
	OutcomeBelowThreshold Outcome = "BELOW_THRESHOLD" // Composite score under the eligibility threshold
	OutcomeZeroQuantity   Outcome = "ZERO_QUANTITY"   // Sizing produced zero units
	OutcomePositionOpen   Outcome = "POSITION_OPEN"   // Guard found an existing open position
	OutcomeSkipped        Outcome = "SKIPPED"         // Insufficient data or model unavailable
	OutcomeFailed         Outcome = "FAILED"          // Execution or unexpected error
)

// Decision is the journal record for one evaluated candidate: the model
// outputs, the composite score, and how the candidate was resolved.
// Decisions are append-only and are never read back by the engine.
type Decision struct {
	ID          int64
	Cycle       int64
	Symbol      string
	EvaluatedAt time.Time
	Price       float64
	Trend       Trend
	Volatility  float64
	Probability float64
	RSI         float64
	Score       int
	Outcome     Outcome
	Quantity    int64
	StopLoss    float64
	TakeProfit  float64
	OrderID     int64 // Exchange order ID when Outcome == ORDERED
	Detail      string
}
