package forecast

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"quantBreakoutBot/internal/domain"
	"quantBreakoutBot/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type mockTrendModel struct {
	mean float64
	err  error
}

func (m *mockTrendModel) FitForecast(closes []float64, horizon int) (float64, error) {
	return m.mean, m.err
}

type mockVolModel struct {
	sigma float64
	err   error
}

func (m *mockVolModel) FitForecast(returns []float64) (float64, error) {
	return m.sigma, m.err
}

func testFrame(lastClose float64) domain.IndicatorFrame {
	rows := make([]domain.IndicatorRow, 40)
	for i := range rows {
		rows[i] = domain.IndicatorRow{Close: lastClose - float64(len(rows)-1-i), LogReturn: 0.01}
	}
	return domain.IndicatorFrame{Rows: rows}
}

func TestForecast(t *testing.T) {
	fitErr := fmt.Errorf("%w: did not converge", ports.ErrModelFit)

	tests := []struct {
		name  string
		trend ports.TrendModel
		vol   ports.VolatilityModel
		want  domain.Forecast
	}{
		{
			name:  "forecast above last close is bullish",
			trend: &mockTrendModel{mean: 105},
			vol:   &mockVolModel{sigma: 22.5},
			want:  domain.Forecast{Trend: domain.TrendBullish, Volatility: 22.5},
		},
		{
			name:  "forecast below last close is bearish",
			trend: &mockTrendModel{mean: 95},
			vol:   &mockVolModel{sigma: 22.5},
			want:  domain.Forecast{Trend: domain.TrendBearish, Volatility: 22.5},
		},
		{
			name:  "trend failure falls back to neutral without losing volatility",
			trend: &mockTrendModel{err: fitErr},
			vol:   &mockVolModel{sigma: 18.2},
			want:  domain.Forecast{Trend: domain.TrendNeutral, Volatility: 18.2},
		},
		{
			name:  "volatility failure falls back without losing trend",
			trend: &mockTrendModel{mean: 105},
			vol:   &mockVolModel{err: fitErr},
			want:  domain.Forecast{Trend: domain.TrendBullish, Volatility: FallbackVolatility},
		},
		{
			name:  "both failures yield the canonical fallback",
			trend: &mockTrendModel{err: fitErr},
			vol:   &mockVolModel{err: fitErr},
			want:  domain.Forecast{Trend: domain.TrendNeutral, Volatility: FallbackVolatility},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := New(tt.trend, tt.vol, &mockLogger{})
			got := adapter.Forecast(context.Background(), testFrame(100))
			assert.Equal(t, tt.want, got)
		})
	}
}
