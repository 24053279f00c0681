package http

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"zimtrader/internal/delivery/http/dto"
	"zimtrader/internal/domain"
	"zimtrader/internal/middleware"
	"zimtrader/internal/service"
)

// ModelHandler exposes the model registry. Registry rows track deployed
// model versions and their approval state; no inference runs here.
type ModelHandler struct {
	modelRepo    domain.ModelRegistryRepository
	auditService *service.AuditService
}

// NewModelHandler creates a new ModelHandler
func NewModelHandler(modelRepo domain.ModelRegistryRepository, auditService *service.AuditService) *ModelHandler {
	return &ModelHandler{
		modelRepo:    modelRepo,
		auditService: auditService,
	}
}

// ListModels returns registry rows, newest deployment first
// GET /api/models
func (h *ModelHandler) ListModels(c echo.Context) error {
	models, err := h.modelRepo.GetAll(c.Request().Context(), queryLimit(c, 50))
	if err != nil {
		return ServiceErrorResponse(c, err)
	}
	return SuccessResponse(c, models)
}

// RegisterModel records a new model version with pending approval
// POST /api/models
func (h *ModelHandler) RegisterModel(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	var req dto.ModelRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if strings.TrimSpace(req.ModelName) == "" || strings.TrimSpace(req.Version) == "" {
		return BadRequestResponse(c, "model_name and version are required")
	}

	model := &domain.ModelVersion{
		ID:                 uuid.New(),
		ModelName:          strings.TrimSpace(req.ModelName),
		Version:            strings.TrimSpace(req.Version),
		Status:             domain.ModelStatusShadowed,
		ApprovalStatus:     domain.ModelApprovalPending,
		DeployedBy:         userID,
		DeployedAt:         time.Now().UTC(),
		Hyperparameters:    req.Hyperparameters,
		PerformanceMetrics: req.PerformanceMetrics,
		ValidationResults:  req.ValidationResults,
		Notes:              req.Notes,
	}

	if err := h.modelRepo.Create(c.Request().Context(), model); err != nil {
		return ServiceErrorResponse(c, err)
	}

	return CreatedResponse(c, model)
}

// ApproveModel records the approval decision for a model version
// POST /api/models/:id/approve
func (h *ModelHandler) ApproveModel(c echo.Context) error {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	modelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid model ID")
	}

	var req dto.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	status := domain.ModelApprovalApproved
	if !req.Approve {
		status = domain.ModelApprovalRejected
	}

	if err := h.modelRepo.SetApproval(c.Request().Context(), modelID, status, adminID); err != nil {
		return ServiceErrorResponse(c, err)
	}

	h.auditService.Record(c.Request().Context(), auditEntry(c, adminID,
		domain.AuditActionModelApproval, "model_version", modelID.String(),
		map[string]any{"approval_status": status}))

	return SuccessMessageResponse(c, "Model approval recorded", nil)
}
