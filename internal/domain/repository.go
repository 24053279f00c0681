package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetAll retrieves all users
	GetAll(ctx context.Context) ([]*User, error)
}

// ProfileRepository defines the interface for wallet balance operations
type ProfileRepository interface {
	// Create creates a profile with zero balances
	Create(ctx context.Context, profile *Profile) error

	// GetByUserID retrieves the profile for a user
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// AddToBalance adds amount to the currency balance
	AddToBalance(ctx context.Context, userID uuid.UUID, currency string, amount float64) error

	// SubtractIfSufficient subtracts amount from the currency balance only
	// when the resulting balance stays non-negative. Returns false when the
	// conditional update matched no row.
	SubtractIfSufficient(ctx context.Context, userID uuid.UUID, currency string, amount float64) (bool, error)
}

// TradeRepository defines the interface for trade data operations
type TradeRepository interface {
	// Create inserts a new trade
	Create(ctx context.Context, trade *Trade) error

	// GetByID retrieves a trade by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Trade, error)

	// GetByUserID retrieves trades for a user, newest first
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*Trade, error)

	// Close records the close mutation: exit price, pnl, closed_at, status
	Close(ctx context.Context, trade *Trade) error
}

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	// Create inserts a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// GetByUserID retrieves transactions for a user, newest first
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*Transaction, error)

	// UpdateStatus updates the status of a transaction
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// GetCompletedDepositsSince retrieves completed deposits at or above
	// minAmount created after the given time, for the AML sweep
	GetCompletedDepositsSince(ctx context.Context, since time.Time, minAmount float64) ([]*Transaction, error)
}

// RoleRepository defines the interface for role assignment operations
type RoleRepository interface {
	// GetRolesByUserID retrieves the set of roles assigned to a user.
	// A user with no role rows yields an empty slice, not an error.
	GetRolesByUserID(ctx context.Context, userID uuid.UUID) ([]Role, error)

	// Assign creates a (user, role) assignment
	Assign(ctx context.Context, assignment *RoleAssignment) error

	// Revoke removes a (user, role) assignment
	Revoke(ctx context.Context, userID uuid.UUID, role Role) error
}

// AuditLogRepository defines the interface for audit log operations
type AuditLogRepository interface {
	// Create inserts an audit log entry
	Create(ctx context.Context, entry *AuditLog) error

	// GetRecent retrieves recent entries, newest first
	GetRecent(ctx context.Context, limit int) ([]*AuditLog, error)
}

// KYCRepository defines the interface for KYC record operations
type KYCRepository interface {
	// Create inserts a KYC record
	Create(ctx context.Context, record *KYCRecord) error

	// GetByUserID retrieves the latest KYC record for a user
	GetByUserID(ctx context.Context, userID uuid.UUID) (*KYCRecord, error)

	// GetByStatus retrieves records with the given status, oldest first
	GetByStatus(ctx context.Context, status string, limit int) ([]*KYCRecord, error)

	// Review records the review outcome for a KYC record
	Review(ctx context.Context, id uuid.UUID, status string, reviewedBy uuid.UUID, rejectionReason *string) error
}

// AMLAlertRepository defines the interface for AML alert operations
type AMLAlertRepository interface {
	// Create inserts an alert
	Create(ctx context.Context, alert *AMLAlert) error

	// GetOpen retrieves open alerts, newest first
	GetOpen(ctx context.Context, limit int) ([]*AMLAlert, error)

	// ExistsForTransaction reports whether an alert already references the transaction
	ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error)

	// Resolve marks an alert resolved with notes
	Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, notes string) error
}

// ModelRegistryRepository defines the interface for model registry operations
type ModelRegistryRepository interface {
	// Create inserts a model version row
	Create(ctx context.Context, model *ModelVersion) error

	// GetAll retrieves registry rows, newest deployment first
	GetAll(ctx context.Context, limit int) ([]*ModelVersion, error)

	// SetApproval records the approval decision for a model version
	SetApproval(ctx context.Context, id uuid.UUID, approvalStatus string, approvedBy uuid.UUID) error
}
