package ports

import (
	"context"
	"time"

	"quantBreakoutBot/internal/domain"
)

// OrderResponse holds the essential details returned after submitting a
// bracket order.
type OrderResponse struct {
	OrderID          int64   // Exchange's order ID for the entry leg
	StopLossOrderID  int64   // Order ID of the protective stop leg
	TakeProfitOrder  int64   // Order ID of the take-profit leg
	Symbol           string
	AvgPrice         float64 // Average filled price of the entry (0 if not yet filled)
	ExecutedQuantity float64
	Status           string
	SubmittedAt      time.Time
}

// Brokerage defines the calls the engine makes against the execution venue.
// This abstraction decouples the decision logic from any concrete exchange.
type Brokerage interface {
	// GetAccountCash returns the free balance available for new positions,
	// denominated in the account's quote asset.
	GetAccountCash(ctx context.Context) (float64, error)

	// GetOpenPosition returns the open position for a symbol, or (nil, nil)
	// when no position exists. Implementations must query the venue, never a
	// local cache.
	GetOpenPosition(ctx context.Context, symbol string) (*domain.Position, error)

	// SubmitBracketOrder places a market entry with attached stop-loss and
	// take-profit legs as one unit.
	SubmitBracketOrder(ctx context.Context, order domain.BracketOrder) (*OrderResponse, error)

	// GetBars retrieves up to limit historical bars for the symbol at the
	// given timeframe (e.g. "1d"), oldest first.
	GetBars(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Bar, error)

	// Ping checks connectivity to the venue.
	Ping(ctx context.Context) error
}
