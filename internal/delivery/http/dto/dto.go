// Package dto holds the request payload shapes for the HTTP API. Numeric
// trade form fields arrive as strings and are validated in the service layer.
package dto

// RegisterRequest is the payload for POST /api/auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest is the payload for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TradeRequest is the payload for POST /api/trades
type TradeRequest struct {
	Symbol         string `json:"symbol"`
	Side           string `json:"side"`
	Quantity       string `json:"quantity"`
	InstrumentType string `json:"instrument_type"`
}

// OptionTradeRequest is the payload for POST /api/trades/options
type OptionTradeRequest struct {
	UnderlyingAsset string `json:"underlying_asset"`
	OptionType      string `json:"option_type"`
	StrikePrice     string `json:"strike_price"`
	ExpiryDate      string `json:"expiry_date"`
	Quantity        string `json:"quantity"`
	Premium         string `json:"premium"`
	Side            string `json:"side"`
}

// CloseTradeRequest is the payload for POST /api/trades/:id/close
type CloseTradeRequest struct {
	ExitPrice string `json:"exit_price"`
}

// WalletRequest is the payload for deposit and withdrawal endpoints
type WalletRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method"`
	Reference     *string `json:"reference,omitempty"`
}

// RoleRequest is the payload for role assignment and revocation
type RoleRequest struct {
	Role string `json:"role"`
}

// DemoRequest is the payload for POST /api/demo/activate
type DemoRequest struct {
	Enabled bool `json:"enabled"`
}

// KYCRequest is the payload for POST /api/kyc
type KYCRequest struct {
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
	IDType      string `json:"id_type"`
	IDNumber    string `json:"id_number"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

// ReviewRequest is the payload for KYC review and model approval decisions
type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

// ResolveAlertRequest is the payload for POST /api/compliance/alerts/:id/resolve
type ResolveAlertRequest struct {
	Notes string `json:"notes"`
}

// ModelRequest is the payload for POST /api/models
type ModelRequest struct {
	ModelName          string         `json:"model_name"`
	Version            string         `json:"version"`
	Hyperparameters    map[string]any `json:"hyperparameters,omitempty"`
	PerformanceMetrics map[string]any `json:"performance_metrics,omitempty"`
	ValidationResults  map[string]any `json:"validation_results,omitempty"`
	Notes              *string        `json:"notes,omitempty"`
}
