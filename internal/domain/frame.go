package domain

import "time"

// IndicatorRow is one bar of an IndicatorFrame: the bar's close plus the
// derived indicator values at that bar.
type IndicatorRow struct {
	Time      time.Time
	Close     float64
	RSI       float64 // RSI(14), Wilder smoothing
	SMA20     float64
	SMA50     float64
	MACD      float64 // MACD line, EMA(12) - EMA(26)
	LogReturn float64 // ln(close / prev close)
}

// IndicatorFrame is a suffix-aligned, time-ordered projection of a bar
// series in which every row has full indicator lookback. Rows are oldest
// first, with no gaps relative to the source series.
type IndicatorFrame struct {
	Rows []IndicatorRow
}

// Len returns the number of rows in the frame.
func (f IndicatorFrame) Len() int { return len(f.Rows) }

// Last returns the most recent row. The frame must be non-empty.
func (f IndicatorFrame) Last() IndicatorRow { return f.Rows[len(f.Rows)-1] }

// TailCloses returns up to n of the most recent close prices, oldest first.
func (f IndicatorFrame) TailCloses(n int) []float64 {
	start := len(f.Rows) - n
	if start < 0 {
		start = 0
	}
	out := make([]float64, 0, len(f.Rows)-start)
	for _, r := range f.Rows[start:] {
		out = append(out, r.Close)
	}
	return out
}

// TailLogReturns returns up to n of the most recent log-returns, oldest
// first, scaled by the given factor.
func (f IndicatorFrame) TailLogReturns(n int, scale float64) []float64 {
	start := len(f.Rows) - n
	if start < 0 {
		start = 0
	}
	out := make([]float64, 0, len(f.Rows)-start)
	for _, r := range f.Rows[start:] {
		out = append(out, r.LogReturn*scale)
	}
	return out
}
