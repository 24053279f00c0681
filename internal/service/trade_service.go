package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zimtrader/internal/domain"
)

// BrokerageGateway is the slice of the gateway client the trade service
// needs: live pricing and order placement.
type BrokerageGateway interface {
	GetQuote(ctx context.Context, symbol, instrumentType string) (float64, error)
	PlaceOrder(ctx context.Context, symbol string, qty float64, side, instrumentType string) error
}

// TradeService converts heterogeneous per-instrument form input into the
// canonical trade record shape and submits it. All numeric fields must parse
// to finite numbers before any store write; a failed insert is surfaced to
// the caller and never retried.
type TradeService struct {
	tradeRepo domain.TradeRepository
	gateway   BrokerageGateway
	logger    *zap.Logger
}

// NewTradeService creates a new TradeService. gateway may be nil, in which
// case submissions skip live pricing and order routing.
func NewTradeService(tradeRepo domain.TradeRepository, gateway BrokerageGateway, logger *zap.Logger) *TradeService {
	return &TradeService{
		tradeRepo: tradeRepo,
		gateway:   gateway,
		logger:    logger,
	}
}

// TradeInput is the raw form input for stock, forex and crypto trades.
// Numeric fields arrive as strings and are validated here.
type TradeInput struct {
	Symbol         string
	Side           string
	Quantity       string
	InstrumentType string
}

// OptionTradeInput is the raw form input for option trades
type OptionTradeInput struct {
	UnderlyingAsset string
	OptionType      string
	StrikePrice     string
	ExpiryDate      string
	Quantity        string
	Premium         string
	Side            string
}

func parsePositiveNumber(field, value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, domain.NewValidationError(field, "is required")
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, domain.NewValidationError(field, "must be a finite number")
	}
	if n <= 0 {
		return 0, domain.NewValidationError(field, "must be greater than zero")
	}
	return n, nil
}

func parsePositiveInt(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, domain.NewValidationError(field, "is required")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, domain.NewValidationError(field, "must be a whole number")
	}
	if n <= 0 {
		return 0, domain.NewValidationError(field, "must be greater than zero")
	}
	return n, nil
}

func normalizeSide(side string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(side)) {
	case domain.SideBuy:
		return domain.SideBuy, nil
	case domain.SideSell:
		return domain.SideSell, nil
	}
	return "", domain.NewValidationError("side", "must be BUY or SELL")
}

// OptionDisplaySymbol synthesizes the display symbol for an option trade:
// underlying, a space, the strike, and the first letter of the option type
// upper-cased, e.g. ("AAPL", 150, "call") -> "AAPL 150C".
func OptionDisplaySymbol(underlying string, strike float64, optionType string) string {
	letter := strings.ToUpper(optionType[:1])
	return fmt.Sprintf("%s %s%s", underlying, strconv.FormatFloat(strike, 'f', -1, 64), letter)
}

// SubmitTrade validates and submits a stock, forex or crypto trade.
// Fractional quantities are allowed only for crypto. The entry price is
// sourced from a live quote when the gateway can provide one.
func (s *TradeService) SubmitTrade(ctx context.Context, userID uuid.UUID, input TradeInput) (*domain.Trade, error) {
	instrumentType := strings.ToLower(strings.TrimSpace(input.InstrumentType))
	switch instrumentType {
	case domain.InstrumentStock, domain.InstrumentForex, domain.InstrumentCrypto:
	case domain.InstrumentOption:
		return nil, domain.NewValidationError("instrument_type", "use the options form for option trades")
	default:
		return nil, domain.NewValidationError("instrument_type", "must be stock, forex or crypto")
	}

	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return nil, domain.NewValidationError("symbol", "is required")
	}

	side, err := normalizeSide(input.Side)
	if err != nil {
		return nil, err
	}

	var quantity float64
	if instrumentType == domain.InstrumentCrypto {
		quantity, err = parsePositiveNumber("quantity", input.Quantity)
	} else {
		var n int
		n, err = parsePositiveInt("quantity", input.Quantity)
		quantity = float64(n)
	}
	if err != nil {
		return nil, err
	}

	var entryPrice float64
	if s.gateway != nil {
		price, err := s.gateway.GetQuote(ctx, symbol, instrumentType)
		if err != nil {
			s.logger.Warn("live quote unavailable, submitting without entry price",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
		} else {
			entryPrice = price
		}

		if err := s.gateway.PlaceOrder(ctx, symbol, quantity, strings.ToLower(side), instrumentType); err != nil {
			return nil, fmt.Errorf("brokerage order failed: %w", err)
		}
	}

	trade := &domain.Trade{
		ID:             uuid.New(),
		UserID:         userID,
		Symbol:         symbol,
		InstrumentType: instrumentType,
		Side:           side,
		Quantity:       quantity,
		EntryPrice:     entryPrice,
		Status:         domain.TradeStatusOpen,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to save trade: %w", err)
	}

	s.logger.Info("trade submitted",
		zap.String("user_id", userID.String()),
		zap.String("symbol", symbol),
		zap.String("instrument_type", instrumentType),
		zap.String("side", side),
	)

	return trade, nil
}

// SubmitOptionTrade validates and submits an option trade. The premium is
// recorded as both the entry price and the premium.
func (s *TradeService) SubmitOptionTrade(ctx context.Context, userID uuid.UUID, input OptionTradeInput) (*domain.Trade, error) {
	underlying := strings.ToUpper(strings.TrimSpace(input.UnderlyingAsset))
	if underlying == "" {
		return nil, domain.NewValidationError("underlying_asset", "is required")
	}

	optionType := strings.ToLower(strings.TrimSpace(input.OptionType))
	if optionType != domain.OptionCall && optionType != domain.OptionPut {
		return nil, domain.NewValidationError("option_type", "must be call or put")
	}

	strike, err := parsePositiveNumber("strike_price", input.StrikePrice)
	if err != nil {
		return nil, err
	}

	expiry := strings.TrimSpace(input.ExpiryDate)
	if expiry == "" {
		return nil, domain.NewValidationError("expiry_date", "is required")
	}
	if _, err := time.Parse("2006-01-02", expiry); err != nil {
		return nil, domain.NewValidationError("expiry_date", "must be a date in YYYY-MM-DD form")
	}

	contracts, err := parsePositiveInt("quantity", input.Quantity)
	if err != nil {
		return nil, err
	}

	premium, err := parsePositiveNumber("premium", input.Premium)
	if err != nil {
		return nil, err
	}

	side, err := normalizeSide(input.Side)
	if err != nil {
		return nil, err
	}

	contractSize := 100 // standard equity option multiplier
	trade := &domain.Trade{
		ID:              uuid.New(),
		UserID:          userID,
		Symbol:          OptionDisplaySymbol(underlying, strike, optionType),
		InstrumentType:  domain.InstrumentOption,
		Side:            side,
		Quantity:        float64(contracts),
		EntryPrice:      premium,
		Status:          domain.TradeStatusOpen,
		UnderlyingAsset: &underlying,
		OptionType:      &optionType,
		StrikePrice:     &strike,
		ExpiryDate:      &expiry,
		Premium:         &premium,
		ContractSize:    &contractSize,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to save option trade: %w", err)
	}

	s.logger.Info("option trade submitted",
		zap.String("user_id", userID.String()),
		zap.String("symbol", trade.Symbol),
		zap.String("side", side),
	)

	return trade, nil
}

// CloseTrade records the single close mutation for a trade: exit price,
// realized PnL, closed timestamp and status. An empty exit price falls back
// to a live quote when the gateway is available.
func (s *TradeService) CloseTrade(ctx context.Context, userID, tradeID uuid.UUID, exitPriceInput string) (*domain.Trade, error) {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if trade.Status != domain.TradeStatusOpen {
		return nil, domain.ErrTradeAlreadyClosed
	}

	var exitPrice float64
	if strings.TrimSpace(exitPriceInput) != "" {
		exitPrice, err = parsePositiveNumber("exit_price", exitPriceInput)
		if err != nil {
			return nil, err
		}
	} else if s.gateway != nil {
		exitPrice, err = s.gateway.GetQuote(ctx, trade.Symbol, trade.InstrumentType)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch closing quote: %w", err)
		}
	} else {
		return nil, domain.NewValidationError("exit_price", "is required")
	}

	pnl := trade.CalculatePnL(exitPrice)
	now := time.Now().UTC()

	trade.ExitPrice = &exitPrice
	trade.PnL = &pnl
	trade.Status = domain.TradeStatusClosed
	trade.ClosedAt = &now

	if err := s.tradeRepo.Close(ctx, trade); err != nil {
		return nil, err
	}

	s.logger.Info("trade closed",
		zap.String("trade_id", trade.ID.String()),
		zap.Float64("exit_price", exitPrice),
		zap.Float64("pnl", pnl),
	)

	return trade, nil
}

// ListTrades returns recent trades for a user, newest first
func (s *TradeService) ListTrades(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Trade, error) {
	return s.tradeRepo.GetByUserID(ctx, userID, limit)
}
