package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zimtrader/internal/domain"
)

type fakeProfileRepo struct {
	profiles    map[uuid.UUID]*domain.Profile
	addErr      error
	subtractOK  bool
	subtractErr error
	subtracted  []float64
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles:   make(map[uuid.UUID]*domain.Profile),
		subtractOK: true,
	}
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) AddToBalance(ctx context.Context, userID uuid.UUID, currency string, amount float64) error {
	if r.addErr != nil {
		return r.addErr
	}
	profile := r.profiles[userID]
	if currency == domain.CurrencyZWL {
		profile.ZWLBalance += amount
	} else {
		profile.USDBalance += amount
	}
	return nil
}

func (r *fakeProfileRepo) SubtractIfSufficient(ctx context.Context, userID uuid.UUID, currency string, amount float64) (bool, error) {
	if r.subtractErr != nil {
		return false, r.subtractErr
	}
	if !r.subtractOK {
		return false, nil
	}
	r.subtracted = append(r.subtracted, amount)
	profile := r.profiles[userID]
	if currency == domain.CurrencyZWL {
		profile.ZWLBalance -= amount
	} else {
		profile.USDBalance -= amount
	}
	return true, nil
}

type fakeTxRepo struct {
	created  []*domain.Transaction
	statuses map[uuid.UUID]string
	deposits []*domain.Transaction
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{statuses: make(map[uuid.UUID]string)}
}

func (r *fakeTxRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	r.created = append(r.created, tx)
	r.statuses[tx.ID] = tx.Status
	return nil
}

func (r *fakeTxRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	for _, tx := range r.created {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTxRepo) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	return r.created, nil
}

func (r *fakeTxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.statuses[id] = status
	return nil
}

func (r *fakeTxRepo) GetCompletedDepositsSince(ctx context.Context, since time.Time, minAmount float64) ([]*domain.Transaction, error) {
	return r.deposits, nil
}

func newWalletFixture(usdBalance float64) (*WalletService, *fakeProfileRepo, *fakeTxRepo, uuid.UUID) {
	profileRepo := newFakeProfileRepo()
	txRepo := newFakeTxRepo()
	userID := uuid.New()
	profileRepo.profiles[userID] = &domain.Profile{
		ID:         uuid.New(),
		UserID:     userID,
		USDBalance: usdBalance,
	}
	return NewWalletService(profileRepo, txRepo, zap.NewNop()), profileRepo, txRepo, userID
}

func TestDepositCreditsBalance(t *testing.T) {
	svc, profileRepo, txRepo, userID := newWalletFixture(0)

	tx, err := svc.Deposit(context.Background(), userID, 100, domain.CurrencyUSD, "card")
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionCompleted, tx.Status)
	assert.Equal(t, domain.TransactionDeposit, tx.Type)
	assert.Equal(t, 100.0, profileRepo.profiles[userID].USDBalance)
	assert.Len(t, txRepo.created, 1)
}

func TestDepositMarksTransactionFailedOnCreditError(t *testing.T) {
	svc, profileRepo, txRepo, userID := newWalletFixture(0)
	profileRepo.addErr = errors.New("db down")

	_, err := svc.Deposit(context.Background(), userID, 100, domain.CurrencyUSD, "card")
	require.Error(t, err)

	require.Len(t, txRepo.created, 1)
	assert.Equal(t, domain.TransactionFailed, txRepo.statuses[txRepo.created[0].ID])
	assert.Zero(t, profileRepo.profiles[userID].USDBalance)
}

func TestWithdrawOverBalanceRejectedWithoutWrites(t *testing.T) {
	svc, profileRepo, txRepo, userID := newWalletFixture(50)

	_, err := svc.Withdraw(context.Background(), userID, 100, domain.CurrencyUSD, "bank", nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	assert.Empty(t, txRepo.created)
	assert.Empty(t, profileRepo.subtracted)
	assert.Equal(t, 50.0, profileRepo.profiles[userID].USDBalance)
}

func TestWithdrawDebitsBalance(t *testing.T) {
	svc, profileRepo, txRepo, userID := newWalletFixture(200)

	tx, err := svc.Withdraw(context.Background(), userID, 80, domain.CurrencyUSD, "bank", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionPending, tx.Status)
	assert.Equal(t, domain.TransactionWithdrawal, tx.Type)
	assert.Equal(t, 120.0, profileRepo.profiles[userID].USDBalance)
	assert.Len(t, txRepo.created, 1)
}

func TestWithdrawCancelledWhenBalanceDrainedConcurrently(t *testing.T) {
	svc, profileRepo, txRepo, userID := newWalletFixture(100)
	// The read sees enough balance but the conditional update misses, as a
	// concurrent withdrawal would cause.
	profileRepo.subtractOK = false

	_, err := svc.Withdraw(context.Background(), userID, 80, domain.CurrencyUSD, "bank", nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	require.Len(t, txRepo.created, 1)
	assert.Equal(t, domain.TransactionCancelled, txRepo.statuses[txRepo.created[0].ID])
}

func TestWalletInputValidation(t *testing.T) {
	svc, _, txRepo, userID := newWalletFixture(100)

	_, err := svc.Deposit(context.Background(), userID, 0, domain.CurrencyUSD, "card")
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Deposit(context.Background(), userID, -5, domain.CurrencyUSD, "card")
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Deposit(context.Background(), userID, 10, "EUR", "card")
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Withdraw(context.Background(), userID, -5, domain.CurrencyUSD, "bank", nil)
	require.ErrorAs(t, err, &vErr)

	assert.Empty(t, txRepo.created)
}
