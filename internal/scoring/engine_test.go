package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quantBreakoutBot/internal/domain"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want int
	}{
		{
			name: "all signals aligned",
			in:   Inputs{Trend: domain.TrendBullish, Volatility: 30, Probability: 0.8, RSI: 50},
			want: 100,
		},
		{
			name: "all signals against",
			in:   Inputs{Trend: domain.TrendBearish, Volatility: 50, Probability: 0.4, RSI: 80},
			want: 20,
		},
		{
			name: "neutral trend earns nothing",
			in:   Inputs{Trend: domain.TrendNeutral, Volatility: 30, Probability: 0.8, RSI: 50},
			want: 70,
		},
		{
			name: "probability at boundary takes the base",
			in:   Inputs{Trend: domain.TrendBullish, Volatility: 30, Probability: 0.65, RSI: 50},
			want: 80,
		},
		{
			name: "volatility at boundary takes the base",
			in:   Inputs{Trend: domain.TrendBullish, Volatility: 35, Probability: 0.8, RSI: 50},
			want: 85,
		},
		{
			name: "rsi band is exclusive at the lower bound",
			in:   Inputs{Trend: domain.TrendBullish, Volatility: 30, Probability: 0.8, RSI: 40},
			want: 85,
		},
		{
			name: "rsi band is exclusive at the upper bound",
			in:   Inputs{Trend: domain.TrendBullish, Volatility: 30, Probability: 0.8, RSI: 65},
			want: 85,
		},
		{
			name: "oversold rsi outside the band",
			in:   Inputs{Trend: domain.TrendBullish, Volatility: 30, Probability: 0.8, RSI: 12},
			want: 85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.in))
		})
	}
}

func TestScoreBounds(t *testing.T) {
	// Whatever the inputs, the rubric stays in [0,100].
	inputs := []Inputs{
		{Trend: domain.TrendBullish, Volatility: -10, Probability: 1.5, RSI: 50},
		{Trend: domain.TrendBearish, Volatility: 1000, Probability: -1, RSI: -20},
		{Trend: "GARBAGE", Volatility: 0, Probability: 0, RSI: 0},
	}
	for _, in := range inputs {
		score := Score(in)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestEligible(t *testing.T) {
	assert.True(t, Eligible(75, 75))
	assert.True(t, Eligible(100, 75))
	assert.False(t, Eligible(74, 75))
}
