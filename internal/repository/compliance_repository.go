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

// KYCRepositoryImpl implements the KYCRepository interface
type KYCRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewKYCRepository creates a new KYCRepository
func NewKYCRepository(db *pgxpool.Pool) domain.KYCRepository {
	return &KYCRepositoryImpl{db: db}
}

const kycColumns = `
	id, user_id, full_name, date_of_birth, id_type, id_number, address,
	phone, status, pep_check_result, sanctions_check_result, reviewed_by,
	reviewed_at, rejection_reason, created_at, updated_at
`

func scanKYCRecord(row pgx.Row) (*domain.KYCRecord, error) {
	record := &domain.KYCRecord{}
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.FullName,
		&record.DateOfBirth,
		&record.IDType,
		&record.IDNumber,
		&record.Address,
		&record.Phone,
		&record.Status,
		&record.PEPCheckResult,
		&record.SanctionsCheckResult,
		&record.ReviewedBy,
		&record.ReviewedAt,
		&record.RejectionReason,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Create inserts a KYC record
func (r *KYCRepositoryImpl) Create(ctx context.Context, record *domain.KYCRecord) error {
	query := `
		INSERT INTO kyc_records (
			id, user_id, full_name, date_of_birth, id_type, id_number,
			address, phone, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.FullName,
		record.DateOfBirth,
		record.IDType,
		record.IDNumber,
		record.Address,
		record.Phone,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create KYC record: %w", err)
	}

	return nil
}

// GetByUserID retrieves the latest KYC record for a user
func (r *KYCRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.KYCRecord, error) {
	query := `SELECT ` + kycColumns + `
		FROM kyc_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	record, err := scanKYCRecord(r.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get KYC record: %w", err)
	}

	return record, nil
}

// GetByStatus retrieves records with the given status, oldest first
func (r *KYCRepositoryImpl) GetByStatus(ctx context.Context, status string, limit int) ([]*domain.KYCRecord, error) {
	query := `SELECT ` + kycColumns + `
		FROM kyc_records
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query KYC records: %w", err)
	}
	defer rows.Close()

	var records []*domain.KYCRecord
	for rows.Next() {
		record, err := scanKYCRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan KYC record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating KYC records: %w", err)
	}

	return records, nil
}

// Review records the review outcome for a KYC record
func (r *KYCRepositoryImpl) Review(ctx context.Context, id uuid.UUID, status string, reviewedBy uuid.UUID, rejectionReason *string) error {
	query := `
		UPDATE kyc_records
		SET status = $1, reviewed_by = $2, reviewed_at = NOW(),
		    rejection_reason = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := r.db.Exec(ctx, query, status, reviewedBy, rejectionReason, id)
	if err != nil {
		return fmt.Errorf("failed to review KYC record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// AMLAlertRepositoryImpl implements the AMLAlertRepository interface
type AMLAlertRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewAMLAlertRepository creates a new AMLAlertRepository
func NewAMLAlertRepository(db *pgxpool.Pool) domain.AMLAlertRepository {
	return &AMLAlertRepositoryImpl{db: db}
}

// Create inserts an alert
func (r *AMLAlertRepositoryImpl) Create(ctx context.Context, alert *domain.AMLAlert) error {
	query := `
		INSERT INTO aml_alerts (
			id, user_id, transaction_id, alert_type, severity, status,
			details, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := r.db.Exec(ctx, query,
		alert.ID,
		alert.UserID,
		alert.TransactionID,
		alert.AlertType,
		alert.Severity,
		alert.Status,
		alert.Details,
		alert.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create AML alert: %w", err)
	}

	return nil
}

// GetOpen retrieves open alerts, newest first
func (r *AMLAlertRepositoryImpl) GetOpen(ctx context.Context, limit int) ([]*domain.AMLAlert, error) {
	query := `
		SELECT id, user_id, transaction_id, alert_type, severity, status,
		       details, assigned_to, resolution_notes, resolved_at, created_at
		FROM aml_alerts
		WHERE status = 'open'
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query AML alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*domain.AMLAlert
	for rows.Next() {
		alert := &domain.AMLAlert{}
		err := rows.Scan(
			&alert.ID,
			&alert.UserID,
			&alert.TransactionID,
			&alert.AlertType,
			&alert.Severity,
			&alert.Status,
			&alert.Details,
			&alert.AssignedTo,
			&alert.ResolutionNotes,
			&alert.ResolvedAt,
			&alert.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan AML alert: %w", err)
		}
		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating AML alerts: %w", err)
	}

	return alerts, nil
}

// ExistsForTransaction reports whether an alert already references the transaction
func (r *AMLAlertRepositoryImpl) ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM aml_alerts WHERE transaction_id = $1
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, transactionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for existing alert: %w", err)
	}

	return exists, nil
}

// Resolve marks an alert resolved with notes
func (r *AMLAlertRepositoryImpl) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, notes string) error {
	query := `
		UPDATE aml_alerts
		SET status = 'resolved', assigned_to = $1, resolution_notes = $2,
		    resolved_at = NOW()
		WHERE id = $3 AND status = 'open'
	`

	tag, err := r.db.Exec(ctx, query, resolvedBy, notes, id)
	if err != nil {
		return fmt.Errorf("failed to resolve AML alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
