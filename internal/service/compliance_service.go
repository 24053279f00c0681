package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zimtrader/internal/domain"
)

// ComplianceService owns KYC review and the periodic AML transaction sweep
type ComplianceService struct {
	kycRepo        domain.KYCRepository
	alertRepo      domain.AMLAlertRepository
	txRepo         domain.TransactionRepository
	largeThreshold float64
	highThreshold  float64
	logger         *zap.Logger
}

// NewComplianceService creates a new ComplianceService
func NewComplianceService(
	kycRepo domain.KYCRepository,
	alertRepo domain.AMLAlertRepository,
	txRepo domain.TransactionRepository,
	largeThreshold float64,
	highThreshold float64,
	logger *zap.Logger,
) *ComplianceService {
	return &ComplianceService{
		kycRepo:        kycRepo,
		alertRepo:      alertRepo,
		txRepo:         txRepo,
		largeThreshold: largeThreshold,
		highThreshold:  highThreshold,
		logger:         logger,
	}
}

// KYCInput is the raw form input for a KYC submission
type KYCInput struct {
	FullName    string
	DateOfBirth string
	IDType      string
	IDNumber    string
	Address     string
	Phone       string
}

// SubmitKYC validates and stores a KYC record with pending status
func (s *ComplianceService) SubmitKYC(ctx context.Context, userID uuid.UUID, input KYCInput) (*domain.KYCRecord, error) {
	required := map[string]string{
		"full_name":     input.FullName,
		"date_of_birth": input.DateOfBirth,
		"id_type":       input.IDType,
		"id_number":     input.IDNumber,
		"address":       input.Address,
		"phone":         input.Phone,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, domain.NewValidationError(field, "is required")
		}
	}
	if _, err := time.Parse("2006-01-02", input.DateOfBirth); err != nil {
		return nil, domain.NewValidationError("date_of_birth", "must be a date in YYYY-MM-DD form")
	}

	now := time.Now().UTC()
	record := &domain.KYCRecord{
		ID:          uuid.New(),
		UserID:      userID,
		FullName:    strings.TrimSpace(input.FullName),
		DateOfBirth: input.DateOfBirth,
		IDType:      strings.TrimSpace(input.IDType),
		IDNumber:    strings.TrimSpace(input.IDNumber),
		Address:     strings.TrimSpace(input.Address),
		Phone:       strings.TrimSpace(input.Phone),
		Status:      domain.KYCStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.kycRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to submit KYC record: %w", err)
	}

	return record, nil
}

// PendingKYC lists KYC records awaiting review, oldest first
func (s *ComplianceService) PendingKYC(ctx context.Context, limit int) ([]*domain.KYCRecord, error) {
	return s.kycRepo.GetByStatus(ctx, domain.KYCStatusPending, limit)
}

// ReviewKYC records an approve/reject decision on a KYC record
func (s *ComplianceService) ReviewKYC(ctx context.Context, recordID, reviewerID uuid.UUID, approve bool, rejectionReason string) error {
	status := domain.KYCStatusApproved
	var reason *string
	if !approve {
		status = domain.KYCStatusRejected
		if strings.TrimSpace(rejectionReason) == "" {
			return domain.NewValidationError("rejection_reason", "is required when rejecting")
		}
		reason = &rejectionReason
	}

	return s.kycRepo.Review(ctx, recordID, status, reviewerID, reason)
}

// OpenAlerts lists open AML alerts, newest first
func (s *ComplianceService) OpenAlerts(ctx context.Context, limit int) ([]*domain.AMLAlert, error) {
	return s.alertRepo.GetOpen(ctx, limit)
}

// ResolveAlert marks an AML alert resolved
func (s *ComplianceService) ResolveAlert(ctx context.Context, alertID, resolverID uuid.UUID, notes string) error {
	if strings.TrimSpace(notes) == "" {
		return domain.NewValidationError("resolution_notes", "is required")
	}
	return s.alertRepo.Resolve(ctx, alertID, resolverID, notes)
}

// SweepLargeTransactions scans recent completed deposits and raises an AML
// alert for each one at or above the configured threshold that has not been
// alerted yet. Runs on a schedule; lookback covers the previous day so a
// missed run still gets picked up.
func (s *ComplianceService) SweepLargeTransactions(ctx context.Context) error {
	since := time.Now().UTC().Add(-24 * time.Hour)

	deposits, err := s.txRepo.GetCompletedDepositsSince(ctx, since, s.largeThreshold)
	if err != nil {
		return fmt.Errorf("failed to scan for large deposits: %w", err)
	}

	raised := 0
	for _, tx := range deposits {
		exists, err := s.alertRepo.ExistsForTransaction(ctx, tx.ID)
		if err != nil {
			s.logger.Error("failed to check for existing AML alert",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if exists {
			continue
		}

		severity := domain.SeverityMedium
		if tx.Amount >= s.highThreshold {
			severity = domain.SeverityHigh
		}

		txID := tx.ID
		alert := &domain.AMLAlert{
			ID:            uuid.New(),
			UserID:        tx.UserID,
			TransactionID: &txID,
			AlertType:     domain.AlertTypeLargeTransaction,
			Severity:      severity,
			Status:        domain.AlertStatusOpen,
			Details: map[string]any{
				"amount":   tx.Amount,
				"currency": tx.Currency,
			},
			CreatedAt: time.Now().UTC(),
		}

		if err := s.alertRepo.Create(ctx, alert); err != nil {
			s.logger.Error("failed to raise AML alert",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(err),
			)
			continue
		}
		raised++
	}

	if raised > 0 {
		s.logger.Info("AML sweep raised alerts", zap.Int("count", raised))
	}

	return nil
}
