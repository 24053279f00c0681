package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records a single user action for the audit trail
type AuditLog struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   *string        `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    *string        `json:"ip_address,omitempty"`
	UserAgent    *string        `json:"user_agent,omitempty"`
	SessionID    *string        `json:"session_id,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Audit action constants for the actions the core records itself
const (
	AuditActionTradeSubmitted = "trade_submitted"
	AuditActionTradeClosed    = "trade_closed"
	AuditActionDeposit        = "deposit"
	AuditActionWithdrawal     = "withdrawal"
	AuditActionRoleAssigned   = "role_assigned"
	AuditActionRoleRevoked    = "role_revoked"
	AuditActionKYCReviewed    = "kyc_reviewed"
	AuditActionAlertResolved  = "aml_alert_resolved"
	AuditActionModelApproval  = "model_approval"
)
