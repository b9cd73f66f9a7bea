package screener

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantBreakoutBot/internal/domain"
	"quantBreakoutBot/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type mockBroker struct {
	bars    map[string][]domain.Bar
	barsErr map[string]error
}

func (m *mockBroker) GetAccountCash(ctx context.Context) (float64, error) { return 0, nil }
func (m *mockBroker) GetOpenPosition(ctx context.Context, symbol string) (*domain.Position, error) {
	return nil, nil
}
func (m *mockBroker) SubmitBracketOrder(ctx context.Context, order domain.BracketOrder) (*ports.OrderResponse, error) {
	return nil, nil
}
func (m *mockBroker) GetBars(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Bar, error) {
	if err := m.barsErr[symbol]; err != nil {
		return nil, err
	}
	return m.bars[symbol], nil
}
func (m *mockBroker) Ping(ctx context.Context) error { return nil }

// baseBars builds 20 bars with a flat 110 resistance, 1000 baseline volume
// and a configurable latest bar.
func baseBars(lastClose, lastVolume float64) []domain.Bar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, 20)
	for i := range bars {
		bars[i] = domain.Bar{
			Time:   start.Add(time.Duration(i) * 24 * time.Hour),
			Open:   105,
			High:   110,
			Low:    100,
			Close:  105,
			Volume: 1000,
		}
	}
	last := &bars[19]
	last.Close = lastClose
	last.High = lastClose
	last.Volume = lastVolume
	return bars
}

func newTestScreener(broker ports.Brokerage) *Screener {
	return New(Config{RVOLThreshold: 1.5}, broker, &mockLogger{})
}

func TestScreenBreakout(t *testing.T) {
	broker := &mockBroker{bars: map[string][]domain.Bar{
		"BTCUSDT": baseBars(115, 3000),
	}}
	got := newTestScreener(broker).Screen(context.Background(), []string{"BTCUSDT"})

	require.Len(t, got, 1)
	assert.Equal(t, "BTCUSDT", got[0].Symbol)
	assert.Equal(t, 115.0, got[0].Close)
	assert.Equal(t, 110.0, got[0].Resistance)
	assert.InDelta(t, 3.0, got[0].RVOL, 1e-9)
}

func TestScreenFilters(t *testing.T) {
	tests := []struct {
		name string
		bars []domain.Bar
	}{
		{"volume not unusual", baseBars(115, 1200)},
		{"close below resistance", baseBars(105, 3000)},
		{"rvol at threshold is not a breakout", baseBars(115, 1500)},
		{"too few bars", baseBars(115, 3000)[:16]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broker := &mockBroker{bars: map[string][]domain.Bar{"ETHUSDT": tt.bars}}
			got := newTestScreener(broker).Screen(context.Background(), []string{"ETHUSDT"})
			assert.Empty(t, got)
		})
	}
}

func TestScreenZeroVolumeBaseline(t *testing.T) {
	bars := baseBars(115, 3000)
	for i := 4; i < 19; i++ {
		bars[i].Volume = 0
	}
	broker := &mockBroker{bars: map[string][]domain.Bar{"DOGEUSDT": bars}}
	got := newTestScreener(broker).Screen(context.Background(), []string{"DOGEUSDT"})
	assert.Empty(t, got, "undefined rvol must exclude the symbol, not divide by zero")
}

func TestScreenFailureIsolation(t *testing.T) {
	broker := &mockBroker{
		bars:    map[string][]domain.Bar{"SOLUSDT": baseBars(115, 3000)},
		barsErr: map[string]error{"BTCUSDT": fmt.Errorf("%w: klines", ports.ErrExchangeUnavailable)},
	}
	got := newTestScreener(broker).Screen(context.Background(), []string{"BTCUSDT", "SOLUSDT"})

	require.Len(t, got, 1, "a failing symbol must not stop the rest of the universe")
	assert.Equal(t, "SOLUSDT", got[0].Symbol)
}

func TestScreenOrderPreserved(t *testing.T) {
	broker := &mockBroker{bars: map[string][]domain.Bar{
		"AAAUSDT": baseBars(115, 3000),
		"BBBUSDT": baseBars(120, 4000),
	}}
	got := newTestScreener(broker).Screen(context.Background(), []string{"BBBUSDT", "AAAUSDT"})

	require.Len(t, got, 2)
	assert.Equal(t, "BBBUSDT", got[0].Symbol)
	assert.Equal(t, "AAAUSDT", got[1].Symbol)
}
