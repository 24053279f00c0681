package domain

import (
	"time"

	"github.com/google/uuid"
)

// ModelVersion represents a row in the model registry. The registry tracks
// deployed model versions and their approval state only; no inference runs
// in this service.
type ModelVersion struct {
	ID                 uuid.UUID      `json:"id"`
	ModelName          string         `json:"model_name"`
	Version            string         `json:"version"`
	Status             string         `json:"status"`
	ApprovalStatus     string         `json:"approval_status"`
	DeployedBy         uuid.UUID      `json:"deployed_by"`
	DeployedAt         time.Time      `json:"deployed_at"`
	ApprovedBy         *uuid.UUID     `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time     `json:"approved_at,omitempty"`
	Hyperparameters    map[string]any `json:"hyperparameters,omitempty"`
	PerformanceMetrics map[string]any `json:"performance_metrics,omitempty"`
	ValidationResults  map[string]any `json:"validation_results,omitempty"`
	Notes              *string        `json:"notes,omitempty"`
}

// ModelApprovalStatus constants
const (
	ModelApprovalPending  = "pending"
	ModelApprovalApproved = "approved"
	ModelApprovalRejected = "rejected"
)

// ModelStatus constants
const (
	ModelStatusActive   = "active"
	ModelStatusRetired  = "retired"
	ModelStatusShadowed = "shadowed"
)
