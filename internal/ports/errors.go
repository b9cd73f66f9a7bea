package ports

import "errors"

// Standard application-level errors.
// Adapters wrap underlying infrastructure errors with these sentinels so the
// engine can classify failures without knowing about any concrete backend.
var (
	// General errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Data / model errors
	ErrInsufficientData      = errors.New("not enough data points for the requested computation")
	ErrModelFit              = errors.New("model fitting or forecasting failed")
	ErrClassifierUnavailable = errors.New("classifier cannot be trained on the available rows")

	// Brokerage errors
	ErrExchangeUnavailable  = errors.New("brokerage API is unavailable")
	ErrConnectionFailed     = errors.New("failed to connect to the brokerage")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("brokerage authentication failed (check API keys)")
	ErrInvalidAPIKeys       = errors.New("invalid API keys or permissions")
	ErrInsufficientFunds    = errors.New("insufficient funds for operation")
	ErrPositionNotFound     = errors.New("position not found on the brokerage")
	ErrOrderPlacementFailed = errors.New("failed to place order")
	ErrOrderCancelFailed    = errors.New("failed to cancel order")
	ErrOrderNotFound        = errors.New("order not found on the brokerage")

	// Journal errors
	ErrQueryFailed = errors.New("journal query failed")
)
