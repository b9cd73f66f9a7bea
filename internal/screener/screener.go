package screener

import (
	"context"

	"quantBreakoutBot/internal/domain"
	"quantBreakoutBot/internal/ports"
)

const (
	// barsPerSymbol is how much history the screen requests per symbol.
	barsPerSymbol = 20
	// minBars is the shortest series the tests below can run on: a 15-bar
	// volume baseline plus the current bar, and a 15-bar resistance window
	// shifted back two bars.
	minBars = 17
	// windowLen is the length of both the volume baseline and the
	// resistance window.
	windowLen = 15
)

// Config holds the screener's tunable parameters.
type Config struct {
	RVOLThreshold float64 // Minimum relative volume, e.g. 1.5
	Timeframe     string  // Bar timeframe requested from the brokerage
}

// Screener filters the symbol universe down to breakout candidates using
// relative-volume and trailing-resistance tests.
type Screener struct {
	cfg    Config
	broker ports.Brokerage
	logger ports.Logger
}

// New creates a screener. The timeframe defaults to daily bars.
func New(cfg Config, broker ports.Brokerage, logger ports.Logger) *Screener {
	if cfg.Timeframe == "" {
		cfg.Timeframe = "1d"
	}
	return &Screener{cfg: cfg, broker: broker, logger: logger}
}

// Screen evaluates every symbol in the universe and returns those that
// broke out on unusual volume, in universe iteration order. Per-symbol
// failures (missing data, fetch errors) exclude only that symbol; the
// rest of the universe is still screened.
func (s *Screener) Screen(ctx context.Context, universe []string) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(universe))
	for _, symbol := range universe {
		bars, err := s.broker.GetBars(ctx, symbol, s.cfg.Timeframe, barsPerSymbol)
		if err != nil {
			s.logger.Warn(ctx, "Screener: failed to fetch bars, excluding symbol", map[string]interface{}{
				"symbol": symbol, "error": err.Error(),
			})
			continue
		}
		cand, ok := s.evaluate(symbol, bars)
		if !ok {
			continue
		}
		s.logger.Info(ctx, "Breakout candidate", map[string]interface{}{
			"symbol": cand.Symbol, "close": cand.Close, "resistance": cand.Resistance, "rvol": cand.RVOL,
		})
		candidates = append(candidates, cand)
	}
	return candidates
}

// evaluate runs the breakout tests for one symbol.
func (s *Screener) evaluate(symbol string, bars []domain.Bar) (domain.Candidate, bool) {
	n := len(bars)
	if n < minBars {
		return domain.Candidate{}, false
	}
	latest := bars[n-1]

	// Volume baseline: the 15 bars preceding the most recent one.
	var avgVol float64
	for _, b := range bars[n-1-windowLen : n-1] {
		avgVol += b.Volume
	}
	avgVol /= windowLen
	if avgVol == 0 {
		// No baseline volume; rvol is undefined, so the symbol fails the
		// screen rather than dividing by zero.
		return domain.Candidate{}, false
	}
	rvol := latest.Volume / avgVol

	// Resistance: max high over the 15 bars ending two bars before the
	// most recent one. The two freshest bars are excluded so the level is
	// established before the move being tested (no lookahead).
	resistance := 0.0
	for _, b := range bars[n-2-windowLen : n-2] {
		if b.High > resistance {
			resistance = b.High
		}
	}

	if latest.Close > resistance && rvol > s.cfg.RVOLThreshold {
		return domain.Candidate{
			Symbol:     symbol,
			Close:      latest.Close,
			Resistance: resistance,
			RVOL:       rvol,
		}, true
	}
	return domain.Candidate{}, false
}
