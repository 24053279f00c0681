package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zimtrader/internal/domain"
)

// WalletService maintains the non-negative-balance invariant across the
// two-step deposit and withdrawal flows. The store cannot express both steps
// as one transaction, so the second step is an atomic conditional update and
// a failed second step is compensated by flipping the transaction row to a
// terminal failure status.
type WalletService struct {
	profileRepo domain.ProfileRepository
	txRepo      domain.TransactionRepository
	logger      *zap.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(profileRepo domain.ProfileRepository, txRepo domain.TransactionRepository, logger *zap.Logger) *WalletService {
	return &WalletService{
		profileRepo: profileRepo,
		txRepo:      txRepo,
		logger:      logger,
	}
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.NewValidationError("amount", "must be a finite number")
	}
	if amount <= 0 {
		return domain.NewValidationError("amount", "must be greater than zero")
	}
	return nil
}

// Deposit inserts a completed transaction and credits the matching currency
// balance. If the balance update fails after the insert succeeded, the
// transaction is marked failed so the ledger never shows a completed deposit
// the balance does not reflect.
func (s *WalletService) Deposit(ctx context.Context, userID uuid.UUID, amount float64, currency, paymentMethod string) (*domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if !domain.ValidCurrency(currency) {
		return nil, domain.NewValidationError("currency", "must be USD or ZWL")
	}

	now := time.Now().UTC()
	tx := &domain.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          domain.TransactionDeposit,
		Amount:        amount,
		Currency:      currency,
		PaymentMethod: paymentMethod,
		Status:        domain.TransactionCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	if err := s.profileRepo.AddToBalance(ctx, userID, currency, amount); err != nil {
		// Compensate: the transaction row exists but the balance was never
		// credited. Mark it failed so the inconsistency is visible.
		if markErr := s.txRepo.UpdateStatus(ctx, tx.ID, domain.TransactionFailed); markErr != nil {
			s.logger.Error("failed to mark deposit transaction failed after balance update error",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(markErr),
			)
		}
		return nil, fmt.Errorf("failed to credit balance: %w", err)
	}

	s.logger.Info("deposit completed",
		zap.String("user_id", userID.String()),
		zap.String("currency", currency),
		zap.Float64("amount", amount),
	)

	return tx, nil
}

// Withdraw rejects locally when the requested amount exceeds the balance
// read at the start of the operation, before any store write. The debit
// itself is an atomic conditional update, so a concurrent withdrawal that
// drains the balance between the read and the write cannot push it negative;
// in that case the pending transaction is cancelled and the withdrawal is
// rejected.
func (s *WalletService) Withdraw(ctx context.Context, userID uuid.UUID, amount float64, currency, paymentMethod string, reference *string) (*domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if !domain.ValidCurrency(currency) {
		return nil, domain.NewValidationError("currency", "must be USD or ZWL")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	if amount > profile.Balance(currency) {
		return nil, domain.ErrInsufficientBalance
	}

	now := time.Now().UTC()
	tx := &domain.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          domain.TransactionWithdrawal,
		Amount:        amount,
		Currency:      currency,
		PaymentMethod: paymentMethod,
		Status:        domain.TransactionPending,
		Reference:     reference,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record withdrawal: %w", err)
	}

	ok, err := s.profileRepo.SubtractIfSufficient(ctx, userID, currency, amount)
	if err != nil {
		if markErr := s.txRepo.UpdateStatus(ctx, tx.ID, domain.TransactionCancelled); markErr != nil {
			s.logger.Error("failed to cancel withdrawal transaction after balance update error",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(markErr),
			)
		}
		return nil, fmt.Errorf("failed to debit balance: %w", err)
	}
	if !ok {
		// Balance drained between the read and the conditional update.
		if markErr := s.txRepo.UpdateStatus(ctx, tx.ID, domain.TransactionCancelled); markErr != nil {
			s.logger.Error("failed to cancel withdrawal transaction after conditional update miss",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(markErr),
			)
		}
		return nil, domain.ErrInsufficientBalance
	}

	s.logger.Info("withdrawal requested",
		zap.String("user_id", userID.String()),
		zap.String("currency", currency),
		zap.Float64("amount", amount),
	)

	return tx, nil
}

// Balances returns the wallet profile for a user
func (s *WalletService) Balances(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// Transactions returns recent transactions for a user
func (s *WalletService) Transactions(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	return s.txRepo.GetByUserID(ctx, userID, limit)
}
