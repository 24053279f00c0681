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

// TradeRepositoryImpl implements the TradeRepository interface
type TradeRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(db *pgxpool.Pool) domain.TradeRepository {
	return &TradeRepositoryImpl{db: db}
}

const tradeColumns = `
	id, user_id, symbol, instrument_type, side, quantity, entry_price,
	exit_price, pnl, status, underlying_asset, option_type, strike_price,
	expiry_date, premium, contract_size, confidence, created_at, closed_at
`

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	trade := &domain.Trade{}
	err := row.Scan(
		&trade.ID,
		&trade.UserID,
		&trade.Symbol,
		&trade.InstrumentType,
		&trade.Side,
		&trade.Quantity,
		&trade.EntryPrice,
		&trade.ExitPrice,
		&trade.PnL,
		&trade.Status,
		&trade.UnderlyingAsset,
		&trade.OptionType,
		&trade.StrikePrice,
		&trade.ExpiryDate,
		&trade.Premium,
		&trade.ContractSize,
		&trade.Confidence,
		&trade.CreatedAt,
		&trade.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// Create inserts a new trade
func (r *TradeRepositoryImpl) Create(ctx context.Context, trade *domain.Trade) error {
	query := `
		INSERT INTO trades (
			id, user_id, symbol, instrument_type, side, quantity, entry_price,
			status, underlying_asset, option_type, strike_price, expiry_date,
			premium, contract_size, confidence, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
	`

	_, err := r.db.Exec(ctx, query,
		trade.ID,
		trade.UserID,
		trade.Symbol,
		trade.InstrumentType,
		trade.Side,
		trade.Quantity,
		trade.EntryPrice,
		trade.Status,
		trade.UnderlyingAsset,
		trade.OptionType,
		trade.StrikePrice,
		trade.ExpiryDate,
		trade.Premium,
		trade.ContractSize,
		trade.Confidence,
		trade.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by ID
func (r *TradeRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1`

	trade, err := scanTrade(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade by ID: %w", err)
	}

	return trade, nil
}

// GetByUserID retrieves trades for a user, newest first
func (r *TradeRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + `
		FROM trades
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades by user ID: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// Close records the close mutation: exit price, pnl, closed_at, status.
// The status guard keeps the open -> closed transition exactly-once.
func (r *TradeRepositoryImpl) Close(ctx context.Context, trade *domain.Trade) error {
	query := `
		UPDATE trades
		SET exit_price = $1,
		    pnl = $2,
		    status = $3,
		    closed_at = $4
		WHERE id = $5 AND status = 'open'
	`

	tag, err := r.db.Exec(ctx, query,
		trade.ExitPrice,
		trade.PnL,
		trade.Status,
		trade.ClosedAt,
		trade.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to close trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTradeAlreadyClosed
	}

	return nil
}
