package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trade represents a single trade record across all instrument classes.
// Option-specific fields are nil for stock/forex/crypto trades.
type Trade struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Symbol          string     `json:"symbol"`
	InstrumentType  string     `json:"instrument_type"`
	Side            string     `json:"side"`
	Quantity        float64    `json:"quantity"`
	EntryPrice      float64    `json:"entry_price"`
	ExitPrice       *float64   `json:"exit_price,omitempty"`
	PnL             *float64   `json:"pnl,omitempty"`
	Status          string     `json:"status"`
	UnderlyingAsset *string    `json:"underlying_asset,omitempty"`
	OptionType      *string    `json:"option_type,omitempty"`
	StrikePrice     *float64   `json:"strike_price,omitempty"`
	ExpiryDate      *string    `json:"expiry_date,omitempty"`
	Premium         *float64   `json:"premium,omitempty"`
	ContractSize    *int       `json:"contract_size,omitempty"`
	Confidence      *int       `json:"confidence,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
}

// InstrumentType constants
const (
	InstrumentStock  = "stock"
	InstrumentOption = "option"
	InstrumentForex  = "forex"
	InstrumentCrypto = "crypto"
)

// TradeSide constants
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// TradeStatus constants
const (
	TradeStatusOpen   = "open"
	TradeStatusClosed = "closed"
)

// OptionType constants
const (
	OptionCall = "call"
	OptionPut  = "put"
)

// ValidInstrumentType reports whether t is a known instrument class
func ValidInstrumentType(t string) bool {
	switch t {
	case InstrumentStock, InstrumentOption, InstrumentForex, InstrumentCrypto:
		return true
	}
	return false
}

// IsBuy checks if the trade is on the buy side
func (t *Trade) IsBuy() bool {
	return t.Side == SideBuy
}

// CalculatePnL calculates realized PnL for the given exit price.
// Buys profit when exit > entry, sells profit when entry > exit.
func (t *Trade) CalculatePnL(exitPrice float64) float64 {
	if t.IsBuy() {
		return (exitPrice - t.EntryPrice) * t.Quantity
	}
	return (t.EntryPrice - exitPrice) * t.Quantity
}
