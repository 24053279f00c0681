package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"zimtrader/internal/domain"
)

// ErrInvalidAction is returned for an action the gateway does not proxy
var ErrInvalidAction = errors.New("invalid action")

// UpstreamError carries a non-2xx brokerage API response so the handler can
// relay the upstream status and body instead of masking it as a 500.
type UpstreamError struct {
	StatusCode int
	Details    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("brokerage API returned status %d", e.StatusCode)
}

// Supported proxy actions
const (
	ActionGetQuote     = "getQuote"
	ActionGetQuotes    = "getQuotes"
	ActionPlaceOrder   = "placeOrder"
	ActionGetPositions = "getPositions"
	ActionGetAccount   = "getAccount"
	ActionGetOrders    = "getOrders"
	ActionSearchAssets = "searchAssets"
)

// Request is one proxied brokerage call. Only Action is always required;
// the rest depend on the action.
type Request struct {
	Action         string   `json:"action"`
	Symbol         string   `json:"symbol,omitempty"`
	Symbols        []string `json:"symbols,omitempty"`
	Qty            float64  `json:"qty,omitempty"`
	Side           string   `json:"side,omitempty"`
	Type           string   `json:"type,omitempty"`
	TimeInForce    string   `json:"time_in_force,omitempty"`
	InstrumentType string   `json:"instrument_type,omitempty"`
}

// Config holds the upstream endpoints and credentials for the gateway client
type Config struct {
	BaseURL     string
	DataBaseURL string
	APIKey      string
	APISecret   string
	RateLimit   rate.Limit
	Burst       int
}

// Client proxies brokerage actions to the upstream trading and market-data
// APIs. Every call passes through a shared rate limiter so a burst of
// dashboard refreshes cannot trip the upstream quota.
type Client struct {
	trading *resty.Client
	data    *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a gateway client with a 10 second request timeout
func NewClient(cfg Config, logger *zap.Logger) *Client {
	auth := map[string]string{
		"APCA-API-KEY-ID":     cfg.APIKey,
		"APCA-API-SECRET-KEY": cfg.APISecret,
	}

	newUpstream := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(10 * time.Second).
			SetHeaders(auth).
			SetHeader("Accept", "application/json")
	}

	return &Client{
		trading: newUpstream(cfg.BaseURL),
		data:    newUpstream(cfg.DataBaseURL),
		limiter: rate.NewLimiter(cfg.RateLimit, cfg.Burst),
		logger:  logger,
	}
}

// Do executes one proxied action and returns the upstream response body
// verbatim. A non-2xx upstream status is returned as *UpstreamError.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	switch req.Action {
	case ActionGetQuote:
		return c.latestQuote(ctx, req.Symbol, req.InstrumentType)
	case ActionGetQuotes:
		return c.execute(c.data.R().
			SetContext(ctx).
			SetQueryParam("symbols", strings.Join(req.Symbols, ",")).
			Get("/v2/stocks/quotes/latest"))
	case ActionPlaceOrder:
		return c.placeOrder(ctx, req)
	case ActionGetPositions:
		return c.execute(c.trading.R().SetContext(ctx).Get("/v2/positions"))
	case ActionGetAccount:
		return c.execute(c.trading.R().SetContext(ctx).Get("/v2/account"))
	case ActionGetOrders:
		return c.execute(c.trading.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{"status": "all", "limit": "50"}).
			Get("/v2/orders"))
	case ActionSearchAssets:
		return c.execute(c.trading.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{"status": "active", "asset_class": "us_equity"}).
			Get("/v2/assets"))
	}

	return nil, ErrInvalidAction
}

func (c *Client) latestQuote(ctx context.Context, symbol, instrumentType string) ([]byte, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: getQuote requires a symbol", ErrInvalidAction)
	}

	if instrumentType == domain.InstrumentCrypto {
		return c.execute(c.data.R().
			SetContext(ctx).
			SetQueryParam("symbols", symbol).
			Get("/v1beta3/crypto/us/latest/quotes"))
	}

	return c.execute(c.data.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/v2/stocks/%s/quotes/latest", symbol)))
}

func (c *Client) placeOrder(ctx context.Context, req Request) ([]byte, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("%w: placeOrder requires a symbol", ErrInvalidAction)
	}

	orderType := req.Type
	if orderType == "" {
		orderType = "market"
	}
	tif := req.TimeInForce
	if tif == "" {
		tif = "day"
	}

	body := map[string]string{
		"symbol":        req.Symbol,
		"qty":           strconv.FormatFloat(req.Qty, 'f', -1, 64),
		"side":          strings.ToLower(req.Side),
		"type":          orderType,
		"time_in_force": tif,
	}

	return c.execute(c.trading.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/v2/orders"))
}

func (c *Client) execute(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, fmt.Errorf("brokerage API request failed: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("brokerage API error response",
			zap.Int("status", resp.StatusCode()),
			zap.String("url", resp.Request.URL),
		)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode(),
			Details:    string(resp.Body()),
		}
	}
	return resp.Body(), nil
}

type quotePayload struct {
	AskPrice float64 `json:"ap"`
	BidPrice float64 `json:"bp"`
}

func (q quotePayload) price() float64 {
	if q.AskPrice > 0 {
		return q.AskPrice
	}
	return q.BidPrice
}

// GetQuote fetches the latest quote for a symbol and returns its ask price,
// falling back to the bid when the ask is absent.
func (c *Client) GetQuote(ctx context.Context, symbol, instrumentType string) (float64, error) {
	body, err := c.Do(ctx, Request{
		Action:         ActionGetQuote,
		Symbol:         symbol,
		InstrumentType: instrumentType,
	})
	if err != nil {
		return 0, err
	}

	// stock quotes arrive as {"quote": {...}}, crypto as
	// {"quotes": {"<symbol>": {...}}}
	var single struct {
		Quote *quotePayload `json:"quote"`
	}
	if err := json.Unmarshal(body, &single); err == nil && single.Quote != nil {
		if p := single.Quote.price(); p > 0 {
			return p, nil
		}
	}

	var keyed struct {
		Quotes map[string]quotePayload `json:"quotes"`
	}
	if err := json.Unmarshal(body, &keyed); err == nil {
		for _, q := range keyed.Quotes {
			if p := q.price(); p > 0 {
				return p, nil
			}
		}
	}

	return 0, fmt.Errorf("no usable quote for %s", symbol)
}

// PlaceOrder routes a market order upstream
func (c *Client) PlaceOrder(ctx context.Context, symbol string, qty float64, side, instrumentType string) error {
	_, err := c.Do(ctx, Request{
		Action:         ActionPlaceOrder,
		Symbol:         symbol,
		Qty:            qty,
		Side:           side,
		InstrumentType: instrumentType,
	})
	return err
}
