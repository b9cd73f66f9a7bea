package domain

import "time"

// Bar represents a single OHLCV candle for one symbol.
type Bar struct {
	Time   time.Time // Start time of the interval
	Open   float64   // Opening price
	High   float64   // Highest price
	Low    float64   // Lowest price
	Close  float64   // Closing price
	Volume float64   // Traded volume
}

// Closes extracts the close prices from a bar series, oldest first.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
