package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account holder in the system
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile holds the per-user wallet balances
type Profile struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	USDBalance float64   `json:"usd_balance"`
	ZWLBalance float64   `json:"zwl_balance"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Currency constants
const (
	CurrencyUSD = "USD"
	CurrencyZWL = "ZWL"
)

// ValidCurrency reports whether c is a supported wallet currency
func ValidCurrency(c string) bool {
	return c == CurrencyUSD || c == CurrencyZWL
}

// Balance returns the balance for the given currency
func (p *Profile) Balance(currency string) float64 {
	if currency == CurrencyZWL {
		return p.ZWLBalance
	}
	return p.USDBalance
}
