package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zimtrader/internal/domain"
)

type fakeKYCRepo struct {
	created []*domain.KYCRecord
	reviews []string
}

func (r *fakeKYCRepo) Create(ctx context.Context, record *domain.KYCRecord) error {
	r.created = append(r.created, record)
	return nil
}

func (r *fakeKYCRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.KYCRecord, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeKYCRepo) GetByStatus(ctx context.Context, status string, limit int) ([]*domain.KYCRecord, error) {
	return nil, nil
}

func (r *fakeKYCRepo) Review(ctx context.Context, id uuid.UUID, status string, reviewedBy uuid.UUID, rejectionReason *string) error {
	r.reviews = append(r.reviews, status)
	return nil
}

type fakeAlertRepo struct {
	created  []*domain.AMLAlert
	existing map[uuid.UUID]bool
	resolved []uuid.UUID
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{existing: make(map[uuid.UUID]bool)}
}

func (r *fakeAlertRepo) Create(ctx context.Context, alert *domain.AMLAlert) error {
	r.created = append(r.created, alert)
	return nil
}

func (r *fakeAlertRepo) GetOpen(ctx context.Context, limit int) ([]*domain.AMLAlert, error) {
	return r.created, nil
}

func (r *fakeAlertRepo) ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error) {
	return r.existing[transactionID], nil
}

func (r *fakeAlertRepo) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, notes string) error {
	r.resolved = append(r.resolved, id)
	return nil
}

func validKYCInput() KYCInput {
	return KYCInput{
		FullName:    "Tendai Moyo",
		DateOfBirth: "1990-04-12",
		IDType:      "national_id",
		IDNumber:    "63-123456A70",
		Address:     "12 Samora Machel Ave, Harare",
		Phone:       "+263771234567",
	}
}

func newComplianceFixture() (*ComplianceService, *fakeKYCRepo, *fakeAlertRepo, *fakeTxRepo) {
	kycRepo := &fakeKYCRepo{}
	alertRepo := newFakeAlertRepo()
	txRepo := newFakeTxRepo()
	svc := NewComplianceService(kycRepo, alertRepo, txRepo, 5000, 10000, zap.NewNop())
	return svc, kycRepo, alertRepo, txRepo
}

func TestSubmitKYC(t *testing.T) {
	svc, kycRepo, _, _ := newComplianceFixture()

	record, err := svc.SubmitKYC(context.Background(), uuid.New(), validKYCInput())
	require.NoError(t, err)

	assert.Equal(t, domain.KYCStatusPending, record.Status)
	assert.Equal(t, "Tendai Moyo", record.FullName)
	assert.Len(t, kycRepo.created, 1)
}

func TestSubmitKYCRejectsMissingFields(t *testing.T) {
	svc, kycRepo, _, _ := newComplianceFixture()

	broken := validKYCInput()
	broken.IDNumber = "  "
	_, err := svc.SubmitKYC(context.Background(), uuid.New(), broken)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)

	broken = validKYCInput()
	broken.DateOfBirth = "12/04/1990"
	_, err = svc.SubmitKYC(context.Background(), uuid.New(), broken)
	require.ErrorAs(t, err, &vErr)

	assert.Empty(t, kycRepo.created)
}

func TestReviewKYCRejectionRequiresReason(t *testing.T) {
	svc, kycRepo, _, _ := newComplianceFixture()

	err := svc.ReviewKYC(context.Background(), uuid.New(), uuid.New(), false, "")
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, kycRepo.reviews)

	require.NoError(t, svc.ReviewKYC(context.Background(), uuid.New(), uuid.New(), false, "document mismatch"))
	require.NoError(t, svc.ReviewKYC(context.Background(), uuid.New(), uuid.New(), true, ""))
	assert.Equal(t, []string{domain.KYCStatusRejected, domain.KYCStatusApproved}, kycRepo.reviews)
}

func TestSweepLargeTransactions(t *testing.T) {
	svc, _, alertRepo, txRepo := newComplianceFixture()

	alerted := &domain.Transaction{ID: uuid.New(), UserID: uuid.New(), Amount: 6000, Currency: domain.CurrencyUSD}
	medium := &domain.Transaction{ID: uuid.New(), UserID: uuid.New(), Amount: 7500, Currency: domain.CurrencyUSD}
	high := &domain.Transaction{ID: uuid.New(), UserID: uuid.New(), Amount: 25000, Currency: domain.CurrencyUSD}
	txRepo.deposits = []*domain.Transaction{alerted, medium, high}
	alertRepo.existing[alerted.ID] = true

	require.NoError(t, svc.SweepLargeTransactions(context.Background()))

	require.Len(t, alertRepo.created, 2)
	bySeverity := map[string]*domain.AMLAlert{}
	for _, alert := range alertRepo.created {
		bySeverity[alert.Severity] = alert
		assert.Equal(t, domain.AlertTypeLargeTransaction, alert.AlertType)
		assert.Equal(t, domain.AlertStatusOpen, alert.Status)
		require.NotNil(t, alert.TransactionID)
	}

	require.Contains(t, bySeverity, domain.SeverityMedium)
	require.Contains(t, bySeverity, domain.SeverityHigh)
	assert.Equal(t, medium.ID, *bySeverity[domain.SeverityMedium].TransactionID)
	assert.Equal(t, high.ID, *bySeverity[domain.SeverityHigh].TransactionID)
	assert.Equal(t, 7500.0, bySeverity[domain.SeverityMedium].Details["amount"])
}

func TestSweepIsRerunSafe(t *testing.T) {
	svc, _, alertRepo, txRepo := newComplianceFixture()

	tx := &domain.Transaction{ID: uuid.New(), UserID: uuid.New(), Amount: 9000, Currency: domain.CurrencyUSD, CreatedAt: time.Now().UTC()}
	txRepo.deposits = []*domain.Transaction{tx}

	require.NoError(t, svc.SweepLargeTransactions(context.Background()))
	require.Len(t, alertRepo.created, 1)

	// the second run sees the alert raised by the first and skips
	alertRepo.existing[tx.ID] = true
	require.NoError(t, svc.SweepLargeTransactions(context.Background()))
	assert.Len(t, alertRepo.created, 1)
}
