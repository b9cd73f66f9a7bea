// Package binanceclient implements the brokerage collaborator on the
// Binance USD-M futures API via the go-binance library.
package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"golang.org/x/time/rate"

	"quantBreakoutBot/internal/domain"
	"quantBreakoutBot/internal/ports"
)

const (
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"

	// defaultPricePrecision is used when the symbol's price filter cannot
	// be fetched from the venue.
	defaultPricePrecision = 2
)

// Client implements ports.Brokerage using the go-binance library.
type Client struct {
	futuresClient *futures.Client
	limiter       *rate.Limiter
	quoteAsset    string
	logger        ports.Logger

	precisionMu    sync.Mutex
	pricePrecision map[string]int
}

// Config holds configuration specific to the Binance adapter.
type Config struct {
	APIKey            string
	SecretKey         string
	UseTestnet        bool
	QuoteAsset        string  // Asset cash balances are reported in, e.g. "USDT"
	RequestsPerSecond float64 // Outbound API rate limit
	Logger            ports.Logger
}

// New creates a new Binance brokerage adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		cfg.Logger.Warn(context.Background(), "APIKey or SecretKey is empty. Client will only work for public endpoints.")
	}
	if cfg.QuoteAsset == "" {
		cfg.QuoteAsset = "USDT"
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 8
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
	} else {
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Info(context.Background(), "Binance client configured", map[string]interface{}{
		"baseURL": client.BaseURL, "quoteAsset": cfg.QuoteAsset,
	})

	return &Client{
		futuresClient:  client,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(math.Ceil(cfg.RequestsPerSecond))),
		quoteAsset:     cfg.QuoteAsset,
		logger:         cfg.Logger,
		pricePrecision: make(map[string]int),
	}, nil
}

// handleError translates Binance API errors into the standard sentinels.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}
	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		var mappedErr error
		switch apiErr.Code {
		case -1003:
			mappedErr = ports.ErrRateLimited
		case -1021:
			mappedErr = ports.ErrTimeout
		case -1022:
			mappedErr = ports.ErrAuthenticationFailed
		case -2010, -2022:
			mappedErr = ports.ErrOrderPlacementFailed
		case -2011:
			mappedErr = ports.ErrOrderCancelFailed
		case -2013:
			mappedErr = ports.ErrOrderNotFound
		case -2014, -2015:
			mappedErr = ports.ErrInvalidAPIKeys
		case -2019, -3005:
			mappedErr = ports.ErrInsufficientFunds
		default:
			if apiErr.Code >= -1199 && apiErr.Code <= -1100 {
				mappedErr = ports.ErrInvalidRequest
			} else {
				mappedErr = ports.ErrExchangeUnavailable
			}
		}
		c.logger.Error(ctx, mappedErr, "Binance API error", fields)
		return fmt.Errorf("%w: %s (code %d)", mappedErr, apiErr.Message, apiErr.Code)
	}

	c.logger.Error(ctx, err, "Binance request failed", fields)
	return fmt.Errorf("%w: %v", ports.ErrConnectionFailed, err)
}

// GetAccountCash returns the available quote-asset balance.
func (c *Client) GetAccountCash(ctx context.Context) (float64, error) {
	op := "GetAccountCash"
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	account, err := c.futuresClient.NewGetAccountService().Do(ctx)
	if err != nil {
		return 0, c.handleError(ctx, err, op)
	}
	for _, asset := range account.Assets {
		if asset.Asset == c.quoteAsset {
			cash, err := strconv.ParseFloat(asset.AvailableBalance, 64)
			if err != nil {
				parseErr := fmt.Errorf("could not parse balance '%s' for asset %s: %w", asset.AvailableBalance, c.quoteAsset, err)
				return 0, c.handleError(ctx, parseErr, op)
			}
			return cash, nil
		}
	}
	return 0, c.handleError(ctx, fmt.Errorf("asset %s not found in account", c.quoteAsset), op)
}

// GetOpenPosition returns the open position for the symbol, or (nil, nil)
// when no position exists. Always a live query against the venue.
func (c *Client) GetOpenPosition(ctx context.Context, symbol string) (*domain.Position, error) {
	op := "GetOpenPosition"
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	positions, err := c.futuresClient.NewGetPositionRiskService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	for _, pos := range positions {
		amt, err := strconv.ParseFloat(pos.PositionAmt, 64)
		if err != nil || amt == 0 {
			continue
		}
		entryPrice, _ := strconv.ParseFloat(pos.EntryPrice, 64)
		markPrice, _ := strconv.ParseFloat(pos.MarkPrice, 64)
		return &domain.Position{
			Symbol:     pos.Symbol,
			Quantity:   amt,
			EntryPrice: entryPrice,
			MarkPrice:  markPrice,
			UpdatedAt:  time.Now().UTC(),
		}, nil
	}
	return nil, nil
}

// SubmitBracketOrder places the market entry, then the protective
// stop-market and take-profit-market legs. If a protective leg cannot be
// placed the entry is closed immediately so no unprotected exposure is
// left on the venue.
func (c *Client) SubmitBracketOrder(ctx context.Context, order domain.BracketOrder) (*ports.OrderResponse, error) {
	op := "SubmitBracketOrder"
	if order.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ports.ErrInvalidRequest)
	}
	quantityStr := strconv.FormatInt(order.Quantity, 10)
	exitSide := oppositeSide(order.Side)
	precision := c.pricePrecisionFor(ctx, order.Symbol)

	entry, err := c.placeOrder(ctx, order.Symbol, order.Side, futures.OrderTypeMarket, quantityStr, "")
	if err != nil {
		return nil, c.handleError(ctx, err, op+":entry")
	}
	c.logger.Info(ctx, op+": entry filled", map[string]interface{}{
		"symbol": order.Symbol, "orderID": entry.OrderID, "quantity": quantityStr,
	})

	slOrder, err := c.placeOrder(ctx, order.Symbol, exitSide, futures.OrderTypeStopMarket, quantityStr, formatPrice(order.StopLoss, precision))
	if err != nil {
		c.logger.Warn(ctx, op+": stop-loss leg failed, closing entry", map[string]interface{}{"symbol": order.Symbol})
		c.emergencyClose(ctx, order.Symbol, exitSide, quantityStr)
		return nil, c.handleError(ctx, err, op+":stopLoss")
	}

	tpOrder, err := c.placeOrder(ctx, order.Symbol, exitSide, futures.OrderTypeTakeProfitMarket, quantityStr, formatPrice(order.TakeProfit, precision))
	if err != nil {
		c.logger.Warn(ctx, op+": take-profit leg failed, cancelling stop and closing entry", map[string]interface{}{"symbol": order.Symbol})
		c.cancelOrderQuiet(ctx, order.Symbol, slOrder.OrderID)
		c.emergencyClose(ctx, order.Symbol, exitSide, quantityStr)
		return nil, c.handleError(ctx, err, op+":takeProfit")
	}

	avgPrice, _ := strconv.ParseFloat(entry.AvgPrice, 64)
	execQty, _ := strconv.ParseFloat(entry.ExecutedQuantity, 64)
	resp := &ports.OrderResponse{
		OrderID:          entry.OrderID,
		StopLossOrderID:  slOrder.OrderID,
		TakeProfitOrder:  tpOrder.OrderID,
		Symbol:           entry.Symbol,
		AvgPrice:         avgPrice,
		ExecutedQuantity: execQty,
		Status:           string(entry.Status),
		SubmittedAt:      time.UnixMilli(entry.UpdateTime),
	}
	c.logger.Info(ctx, op+" successful", map[string]interface{}{
		"symbol": order.Symbol, "entryOrderID": resp.OrderID,
		"slOrderID": resp.StopLossOrderID, "tpOrderID": resp.TakeProfitOrder,
	})
	return resp, nil
}

func (c *Client) placeOrder(ctx context.Context, symbol string, side domain.OrderSide, orderType futures.OrderType, quantity, stopPrice string) (*futures.CreateOrderResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	svc := c.futuresClient.NewCreateOrderService().
		Symbol(symbol).
		Side(futures.SideType(side)).
		Type(orderType).
		Quantity(quantity)
	if orderType != futures.OrderTypeMarket {
		svc = svc.StopPrice(stopPrice).ClosePosition(true)
	}
	return svc.Do(ctx)
}

// emergencyClose market-closes the just-opened exposure. Safety only: it
// does not touch any engine state.
func (c *Client) emergencyClose(ctx context.Context, symbol string, side domain.OrderSide, quantity string) {
	if _, err := c.placeOrder(ctx, symbol, side, futures.OrderTypeMarket, quantity, ""); err != nil {
		c.logger.Error(ctx, err, "EMERGENCY CLOSE FAILED, manual intervention may be required", map[string]interface{}{
			"symbol": symbol, "quantity": quantity,
		})
	}
}

func (c *Client) cancelOrderQuiet(ctx context.Context, symbol string, orderID int64) {
	if err := c.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := c.futuresClient.NewCancelOrderService().Symbol(symbol).OrderID(orderID).Do(ctx); err != nil {
		c.logger.Warn(ctx, "Failed to cancel order during bracket cleanup", map[string]interface{}{
			"symbol": symbol, "orderID": orderID, "error": err.Error(),
		})
	}
}

// GetBars retrieves historical bars, oldest first.
func (c *Client) GetBars(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Bar, error) {
	op := "GetBars"
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	klines, err := c.futuresClient.NewKlinesService().
		Symbol(symbol).
		Interval(timeframe).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	bars := make([]domain.Bar, 0, len(klines))
	for _, k := range klines {
		bar, err := translateKline(k)
		if err != nil {
			return nil, c.handleError(ctx, err, op)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// Ping checks connectivity to the venue.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := c.futuresClient.NewPingService().Do(ctx); err != nil {
		return c.handleError(ctx, err, "Ping")
	}
	return nil
}

// --- Helpers ---

func oppositeSide(side domain.OrderSide) domain.OrderSide {
	if side == domain.Buy {
		return domain.Sell
	}
	return domain.Buy
}

// pricePrecisionFor returns the symbol's price precision from the venue's
// exchange info. The full symbol table is cached on first use; a failed
// lookup falls back to a coarse default rather than blocking the order.
func (c *Client) pricePrecisionFor(ctx context.Context, symbol string) int {
	c.precisionMu.Lock()
	p, ok := c.pricePrecision[symbol]
	c.precisionMu.Unlock()
	if ok {
		return p
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return defaultPricePrecision
	}
	info, err := c.futuresClient.NewExchangeInfoService().Do(ctx)
	if err != nil {
		c.logger.Warn(ctx, "Failed to fetch exchange info, using default price precision", map[string]interface{}{
			"symbol": symbol, "error": err.Error(),
		})
		return defaultPricePrecision
	}

	c.precisionMu.Lock()
	for _, s := range info.Symbols {
		c.pricePrecision[s.Symbol] = s.PricePrecision
	}
	p, ok = c.pricePrecision[symbol]
	c.precisionMu.Unlock()
	if !ok {
		c.logger.Warn(ctx, "Symbol missing from exchange info, using default price precision", map[string]interface{}{
			"symbol": symbol,
		})
		return defaultPricePrecision
	}
	return p
}

// formatPrice renders a price to the symbol's tick precision.
func formatPrice(price float64, precision int) string {
	return strconv.FormatFloat(price, 'f', precision, 64)
}

func translateKline(k *futures.Kline) (domain.Bar, error) {
	if k == nil {
		return domain.Bar{}, errors.New("received nil historical kline")
	}
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing open price '%s': %w", k.Open, err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing high price '%s': %w", k.High, err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing low price '%s': %w", k.Low, err)
	}
	cls, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing close price '%s': %w", k.Close, err)
	}
	vol, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing volume '%s': %w", k.Volume, err)
	}
	return domain.Bar{
		Time:   time.UnixMilli(k.OpenTime),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  cls,
		Volume: vol,
	}, nil
}
