package domain

import (
	"time"

	"github.com/google/uuid"
)

// KYCRecord represents a know-your-customer submission
type KYCRecord struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"user_id"`
	FullName             string     `json:"full_name"`
	DateOfBirth          string     `json:"date_of_birth"`
	IDType               string     `json:"id_type"`
	IDNumber             string     `json:"id_number"`
	Address              string     `json:"address"`
	Phone                string     `json:"phone"`
	Status               string     `json:"status"`
	PEPCheckResult       *string    `json:"pep_check_result,omitempty"`
	SanctionsCheckResult *string    `json:"sanctions_check_result,omitempty"`
	ReviewedBy           *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt           *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason      *string    `json:"rejection_reason,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// KYCStatus constants
const (
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

// AMLAlert represents an anti-money-laundering alert raised on a transaction
type AMLAlert struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	TransactionID   *uuid.UUID     `json:"transaction_id,omitempty"`
	AlertType       string         `json:"alert_type"`
	Severity        string         `json:"severity"`
	Status          string         `json:"status"`
	Details         map[string]any `json:"details"`
	AssignedTo      *uuid.UUID     `json:"assigned_to,omitempty"`
	ResolutionNotes *string        `json:"resolution_notes,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// AMLAlertType constants
const (
	AlertTypeLargeTransaction = "large_transaction"
)

// AMLSeverity constants
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// AMLAlertStatus constants
const (
	AlertStatusOpen     = "open"
	AlertStatusResolved = "resolved"
)
