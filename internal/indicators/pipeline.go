package indicators

import (
	"fmt"
	"math"

	"quantBreakoutBot/internal/domain"
	"quantBreakoutBot/internal/ports"
)

// Indicator periods are fixed: the downstream scoring rubric and the
// classifier feature set are defined against exactly these columns.
const (
	RSIPeriod   = 14
	SMAShort    = 20
	SMALong     = 50
	MACDFast    = 12
	MACDSlow    = 26
	MinimumBars = 50 // SMA(50) is the longest lookback
)

// Build derives an IndicatorFrame from a bar series. Rows lacking full
// indicator lookback are dropped, so the frame is a suffix of the input:
// time-ordered, gap-free and aligned with the most recent bars.
// Deterministic for identical input; no side effects.
func Build(bars []domain.Bar) (domain.IndicatorFrame, error) {
	if len(bars) < MinimumBars {
		return domain.IndicatorFrame{}, fmt.Errorf("%w: need %d bars for indicators, got %d",
			ports.ErrInsufficientData, MinimumBars, len(bars))
	}

	closes := domain.Closes(bars)
	rsi := RSISeries(closes, RSIPeriod)
	smaShort := SMASeries(closes, SMAShort)
	smaLong := SMASeries(closes, SMALong)
	macd := MACDSeries(closes, MACDFast, MACDSlow)
	logRet := LogReturnSeries(closes)

	rows := make([]domain.IndicatorRow, 0, len(bars))
	for i := range bars {
		if anyNaN(rsi[i], smaShort[i], smaLong[i], macd[i], logRet[i]) {
			continue
		}
		rows = append(rows, domain.IndicatorRow{
			Time:      bars[i].Time,
			Close:     bars[i].Close,
			RSI:       rsi[i],
			SMA20:     smaShort[i],
			SMA50:     smaLong[i],
			MACD:      macd[i],
			LogReturn: logRet[i],
		})
	}
	if len(rows) == 0 {
		return domain.IndicatorFrame{}, fmt.Errorf("%w: no rows with full indicator lookback", ports.ErrInsufficientData)
	}
	return domain.IndicatorFrame{Rows: rows}, nil
}

func anyNaN(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
