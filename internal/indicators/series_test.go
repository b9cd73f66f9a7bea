package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMASeries(t *testing.T) {
	out := SMASeries([]float64{1, 2, 3, 4, 5}, 3)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestSMASeriesShortInput(t *testing.T) {
	out := SMASeries([]float64{1, 2}, 3)
	for i, v := range out {
		assert.True(t, math.IsNaN(v), "index %d", i)
	}
}

func TestEMASeries(t *testing.T) {
	// Period 3: seeded with SMA(1,2,3)=2, multiplier 0.5.
	out := EMASeries([]float64{1, 2, 3, 4, 5}, 3)
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestMACDSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	out := MACDSeries(closes, 12, 26)
	// Defined only once the slow EMA is seeded.
	assert.True(t, math.IsNaN(out[24]))
	assert.False(t, math.IsNaN(out[25]))
	// In a steady uptrend the fast EMA sits above the slow one.
	assert.Greater(t, out[39], 0.0)
}

func TestRSISeries(t *testing.T) {
	t.Run("monotone rise saturates at 100", func(t *testing.T) {
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		out := RSISeries(closes, 14)
		assert.True(t, math.IsNaN(out[13]))
		assert.InDelta(t, 100.0, out[14], 1e-9)
		assert.InDelta(t, 100.0, out[29], 1e-9)
	})

	t.Run("flat series reads neutral", func(t *testing.T) {
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100
		}
		out := RSISeries(closes, 14)
		assert.InDelta(t, 50.0, out[14], 1e-9)
	})

	t.Run("mixed moves stay inside the scale", func(t *testing.T) {
		closes := make([]float64, 40)
		for i := range closes {
			closes[i] = 100 + 3*math.Sin(float64(i))
		}
		out := RSISeries(closes, 14)
		for i := 14; i < len(out); i++ {
			assert.GreaterOrEqual(t, out[i], 0.0)
			assert.LessOrEqual(t, out[i], 100.0)
		}
	})
}

func TestLogReturnSeries(t *testing.T) {
	out := LogReturnSeries([]float64{100, 110, 99})
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, math.Log(1.1), out[1], 1e-12)
	assert.InDelta(t, math.Log(0.9), out[2], 1e-12)
}
