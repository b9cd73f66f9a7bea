// Package app contains the cycle scheduler: the resilient loop that
// drives screening, scoring and execution over the symbol universe.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quantBreakoutBot/config"
	"quantBreakoutBot/internal/domain"
	"quantBreakoutBot/internal/forecast"
	"quantBreakoutBot/internal/indicators"
	"quantBreakoutBot/internal/metrics"
	"quantBreakoutBot/internal/ports"
	"quantBreakoutBot/internal/probability"
	"quantBreakoutBot/internal/risk"
	"quantBreakoutBot/internal/scoring"
	"quantBreakoutBot/internal/screener"
)

// historyBars is how much daily history each candidate evaluation pulls.
const historyBars = 150

// Service orchestrates one scan cycle after another: screen the universe,
// evaluate each candidate, execute when eligible, then wait out the
// interval. Failures degrade to "skip and continue"; nothing that happens
// inside a cycle terminates the process.
type Service struct {
	cfg         *config.Config
	logger      ports.Logger
	broker      ports.Brokerage
	screen      *screener.Screener
	forecaster  *forecast.Adapter
	probability *probability.Adapter
	notifier    ports.Notifier
	journal     ports.Journal
	metrics     *metrics.Recorder

	cycle int64 // Monotonic cycle counter, journal correlation only
}

// New creates the scheduler service. All dependencies are required.
func New(
	cfg *config.Config,
	logger ports.Logger,
	broker ports.Brokerage,
	screen *screener.Screener,
	forecaster *forecast.Adapter,
	prob *probability.Adapter,
	notifier ports.Notifier,
	journal ports.Journal,
	recorder *metrics.Recorder,
) (*Service, error) {
	if cfg == nil || logger == nil || broker == nil || screen == nil ||
		forecaster == nil || prob == nil || notifier == nil || journal == nil || recorder == nil {
		return nil, fmt.Errorf("missing required dependencies for Service")
	}
	if cfg.CycleInterval <= 0 {
		return nil, fmt.Errorf("configuration CycleInterval must be positive")
	}
	if len(cfg.Universe) == 0 {
		return nil, fmt.Errorf("configuration Universe must not be empty")
	}
	return &Service{
		cfg:         cfg,
		logger:      logger,
		broker:      broker,
		screen:      screen,
		forecaster:  forecaster,
		probability: prob,
		notifier:    notifier,
		journal:     journal,
		metrics:     recorder,
	}, nil
}

// Run executes scan cycles until the context is cancelled or a shutdown
// signal arrives. There is no terminal state of its own: the loop
// alternates between running a pass and waiting out the interval.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info(ctx, "Starting scan loop", map[string]interface{}{
		"universe": len(s.cfg.Universe), "interval": s.cfg.CycleInterval.String(),
		"scoreThreshold": s.cfg.ScoreThreshold,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Scan loop stopped")
			return nil
		case <-time.After(s.cfg.CycleInterval):
		}
	}
}

// runCycle executes one pass over the universe. Defects escaping the
// per-candidate boundary are recovered here so the scheduler always
// reaches the waiting state on schedule.
func (s *Service) runCycle(ctx context.Context) {
	s.cycle++
	cycle := s.cycle
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, fmt.Errorf("panic: %v", r), "Cycle aborted by unexpected defect", map[string]interface{}{"cycle": cycle})
		}
		s.metrics.RecordCycle(time.Since(started).Seconds())
		s.logger.Info(ctx, "Cycle completed", map[string]interface{}{
			"cycle": cycle, "elapsed": time.Since(started).String(),
		})
	}()

	s.logger.Info(ctx, "Scanning universe", map[string]interface{}{"cycle": cycle, "symbols": len(s.cfg.Universe)})
	candidates := s.screen.Screen(ctx, s.cfg.Universe)
	s.metrics.RecordCandidates(len(candidates))
	if len(candidates) == 0 {
		return
	}

	cash, err := s.broker.GetAccountCash(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to fetch account cash, ending cycle early", map[string]interface{}{"cycle": cycle})
		return
	}
	s.logger.Info(ctx, "Evaluating candidates", map[string]interface{}{
		"cycle": cycle, "candidates": len(candidates), "cash": cash,
	})

	for _, cand := range candidates {
		outcome := s.evaluateCandidate(ctx, cycle, cand, cash)
		s.metrics.RecordOutcome(outcome)
		if ctx.Err() != nil {
			return
		}
	}
}

// evaluateCandidate runs the full pipeline for one candidate and resolves
// it to a typed outcome. This is the per-candidate failure boundary: any
// error or panic is contained here so the remaining candidates still run.
func (s *Service) evaluateCandidate(ctx context.Context, cycle int64, cand domain.Candidate, cash float64) (outcome domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = domain.OutcomeFailed
			s.logger.Error(ctx, fmt.Errorf("panic: %v", r), "Candidate abandoned by unexpected defect", map[string]interface{}{
				"cycle": cycle, "symbol": cand.Symbol,
			})
		}
	}()

	decision, outcome := s.decide(ctx, cycle, cand, cash)
	s.record(ctx, decision)
	return outcome
}

// decide evaluates the candidate and, when everything lines up, submits
// the bracket order. It returns the journal record and the outcome.
func (s *Service) decide(ctx context.Context, cycle int64, cand domain.Candidate, cash float64) (*domain.Decision, domain.Outcome) {
	d := &domain.Decision{
		Cycle:       cycle,
		Symbol:      cand.Symbol,
		EvaluatedAt: time.Now().UTC(),
	}
	resolve := func(o domain.Outcome, detail string) (*domain.Decision, domain.Outcome) {
		d.Outcome = o
		d.Detail = detail
		return d, o
	}

	bars, err := s.broker.GetBars(ctx, cand.Symbol, "1d", historyBars)
	if err != nil {
		s.logger.Warn(ctx, "Failed to fetch history, skipping candidate", map[string]interface{}{
			"symbol": cand.Symbol, "error": err.Error(),
		})
		return resolve(domain.OutcomeSkipped, "history fetch failed")
	}

	frame, err := indicators.Build(bars)
	if err != nil {
		s.logger.Warn(ctx, "Insufficient history for indicators, skipping candidate", map[string]interface{}{
			"symbol": cand.Symbol, "bars": len(bars), "error": err.Error(),
		})
		return resolve(domain.OutcomeSkipped, "insufficient history")
	}

	fc := s.forecaster.Forecast(ctx, frame)

	prob, err := s.probability.TrainAndPredict(ctx, frame)
	if err != nil {
		// No safe probability fallback exists; the symbol is abandoned for
		// this cycle and re-evaluated from scratch on the next pass.
		if errors.Is(err, ports.ErrClassifierUnavailable) {
			s.logger.Warn(ctx, "Classifier unavailable, skipping candidate", map[string]interface{}{
				"symbol": cand.Symbol, "error": err.Error(),
			})
			return resolve(domain.OutcomeSkipped, "classifier unavailable")
		}
		s.logger.Error(ctx, err, "Probability estimation failed, skipping candidate", map[string]interface{}{"symbol": cand.Symbol})
		return resolve(domain.OutcomeSkipped, "probability estimation failed")
	}

	last := frame.Last()
	score := scoring.Score(scoring.Inputs{
		Trend:       fc.Trend,
		Volatility:  fc.Volatility,
		Probability: prob,
		RSI:         last.RSI,
	})

	d.Price = last.Close
	d.Trend = fc.Trend
	d.Volatility = fc.Volatility
	d.Probability = prob
	d.RSI = last.RSI
	d.Score = score

	s.logger.Info(ctx, "Candidate scored", map[string]interface{}{
		"symbol": cand.Symbol, "score": score, "trend": string(fc.Trend),
		"volatility": fc.Volatility, "probability": prob, "rsi": last.RSI,
	})

	if !scoring.Eligible(score, s.cfg.ScoreThreshold) {
		return resolve(domain.OutcomeBelowThreshold, "")
	}

	levels := risk.Levels(last.Close, fc.Volatility, prob)
	quantity := risk.Quantity(cash, s.cfg.RiskFraction, last.Close)
	d.StopLoss = levels.StopLoss
	d.TakeProfit = levels.TakeProfit
	d.Quantity = quantity

	if quantity == 0 {
		// Not enough cash at this price for even one unit; expected
		// steady-state behavior, not an error.
		return resolve(domain.OutcomeZeroQuantity, "")
	}

	// The guard always asks the venue; external fills and closures can
	// happen outside this engine's control, so a cached answer is wrong
	// by construction.
	position, err := s.broker.GetOpenPosition(ctx, cand.Symbol)
	if err != nil {
		s.logger.Error(ctx, err, "Position query failed, abandoning candidate", map[string]interface{}{"symbol": cand.Symbol})
		return resolve(domain.OutcomeFailed, "position query failed")
	}
	if position != nil {
		s.logger.Info(ctx, "Position already open, skipping", map[string]interface{}{
			"symbol": cand.Symbol, "positionQty": position.Quantity,
		})
		return resolve(domain.OutcomePositionOpen, "")
	}

	resp, err := s.broker.SubmitBracketOrder(ctx, domain.BracketOrder{
		Symbol:     cand.Symbol,
		Side:       domain.Buy,
		Quantity:   quantity,
		StopLoss:   levels.StopLoss,
		TakeProfit: levels.TakeProfit,
	})
	if err != nil {
		// No retry within the cycle: the next pass re-evaluates the symbol
		// from scratch.
		s.logger.Error(ctx, err, "Bracket order failed, abandoning candidate", map[string]interface{}{"symbol": cand.Symbol})
		return resolve(domain.OutcomeFailed, "order submission failed")
	}
	d.OrderID = resp.OrderID
	d.Outcome = domain.OutcomeOrdered

	s.logger.Info(ctx, "Bracket order submitted", map[string]interface{}{
		"symbol": cand.Symbol, "orderID": resp.OrderID, "quantity": quantity,
		"stopLoss": levels.StopLoss, "takeProfit": levels.TakeProfit, "score": score,
	})
	s.notifier.Send(formatNotification(cand.Symbol, last.Close, levels, quantity, score))

	return d, domain.OutcomeOrdered
}

// record journals the decision. Journal failures are logged and dropped:
// the audit trail is best effort and never blocks trading.
func (s *Service) record(ctx context.Context, d *domain.Decision) {
	if err := s.journal.Record(ctx, d); err != nil {
		s.logger.Error(ctx, err, "Failed to journal decision", map[string]interface{}{
			"cycle": d.Cycle, "symbol": d.Symbol,
		})
	}
}

func formatNotification(symbol string, price float64, levels domain.RiskLevels, quantity int64, score int) string {
	return fmt.Sprintf(
		"*BUY EXECUTED*\nSymbol: %s\nPrice: %.2f\nQty: %d\nSL: %.2f | TP: %.2f\nScore: %d",
		symbol, price, quantity, levels.StopLoss, levels.TakeProfit, score,
	)
}
