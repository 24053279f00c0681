package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"zimtrader/internal/domain"
)

// ModelRegistryRepositoryImpl implements the ModelRegistryRepository interface
type ModelRegistryRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewModelRegistryRepository creates a new ModelRegistryRepository
func NewModelRegistryRepository(db *pgxpool.Pool) domain.ModelRegistryRepository {
	return &ModelRegistryRepositoryImpl{db: db}
}

// Create inserts a model version row
func (r *ModelRegistryRepositoryImpl) Create(ctx context.Context, model *domain.ModelVersion) error {
	query := `
		INSERT INTO model_registry (
			id, model_name, version, status, approval_status, deployed_by,
			deployed_at, hyperparameters, performance_metrics,
			validation_results, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.Exec(ctx, query,
		model.ID,
		model.ModelName,
		model.Version,
		model.Status,
		model.ApprovalStatus,
		model.DeployedBy,
		model.DeployedAt,
		model.Hyperparameters,
		model.PerformanceMetrics,
		model.ValidationResults,
		model.Notes,
	)

	if err != nil {
		return fmt.Errorf("failed to create model registry entry: %w", err)
	}

	return nil
}

// GetAll retrieves registry rows, newest deployment first
func (r *ModelRegistryRepositoryImpl) GetAll(ctx context.Context, limit int) ([]*domain.ModelVersion, error) {
	query := `
		SELECT id, model_name, version, status, approval_status, deployed_by,
		       deployed_at, approved_by, approved_at, hyperparameters,
		       performance_metrics, validation_results, notes
		FROM model_registry
		ORDER BY deployed_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query model registry: %w", err)
	}
	defer rows.Close()

	var models []*domain.ModelVersion
	for rows.Next() {
		model := &domain.ModelVersion{}
		err := rows.Scan(
			&model.ID,
			&model.ModelName,
			&model.Version,
			&model.Status,
			&model.ApprovalStatus,
			&model.DeployedBy,
			&model.DeployedAt,
			&model.ApprovedBy,
			&model.ApprovedAt,
			&model.Hyperparameters,
			&model.PerformanceMetrics,
			&model.ValidationResults,
			&model.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model registry entry: %w", err)
		}
		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating model registry: %w", err)
	}

	return models, nil
}

// SetApproval records the approval decision for a model version
func (r *ModelRegistryRepositoryImpl) SetApproval(ctx context.Context, id uuid.UUID, approvalStatus string, approvedBy uuid.UUID) error {
	query := `
		UPDATE model_registry
		SET approval_status = $1, approved_by = $2, approved_at = NOW()
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, approvalStatus, approvedBy, id)
	if err != nil {
		return fmt.Errorf("failed to set model approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
