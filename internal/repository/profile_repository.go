package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zimtrader/internal/domain"
)

// ProfileRepositoryImpl implements the ProfileRepository interface
type ProfileRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

// balanceColumn maps a currency to its balance column. Currencies are
// validated at the service boundary; this is the last line of defense
// against interpolating anything else into SQL.
func balanceColumn(currency string) (string, error) {
	switch currency {
	case domain.CurrencyUSD:
		return "usd_balance", nil
	case domain.CurrencyZWL:
		return "zwl_balance", nil
	}
	return "", fmt.Errorf("unknown currency: %s", currency)
}

// Create creates a profile with zero balances
func (r *ProfileRepositoryImpl) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, usd_balance, zwl_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.USDBalance,
		profile.ZWLBalance,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByUserID retrieves the profile for a user
func (r *ProfileRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT id, user_id, usd_balance, zwl_balance, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	profile := &domain.Profile{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.USDBalance,
		&profile.ZWLBalance,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// AddToBalance adds amount to the currency balance
func (r *ProfileRepositoryImpl) AddToBalance(ctx context.Context, userID uuid.UUID, currency string, amount float64) error {
	column, err := balanceColumn(currency)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE profiles
		SET %s = %s + $1, updated_at = NOW()
		WHERE user_id = $2
	`, column, column)

	tag, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add to balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// SubtractIfSufficient subtracts amount atomically, guarded by the
// non-negative balance invariant. The WHERE clause makes the check and the
// subtraction a single statement, so two concurrent withdrawals cannot both
// drain the same funds.
func (r *ProfileRepositoryImpl) SubtractIfSufficient(ctx context.Context, userID uuid.UUID, currency string, amount float64) (bool, error) {
	column, err := balanceColumn(currency)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		UPDATE profiles
		SET %s = %s - $1, updated_at = NOW()
		WHERE user_id = $2 AND %s >= $1
	`, column, column, column)

	tag, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		return false, fmt.Errorf("failed to subtract from balance: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
