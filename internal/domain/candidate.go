package domain

// Candidate is a symbol that passed breakout screening in the current
// cycle. Candidates carry no identity across cycles; the universe is
// re-screened on every pass.
type Candidate struct {
	Symbol     string
	Close      float64 // Most recent close at screening time
	Resistance float64 // Trailing resistance level that was broken
	RVOL       float64 // Relative volume at screening time
}
