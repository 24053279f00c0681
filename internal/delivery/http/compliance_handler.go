package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"zimtrader/internal/delivery/http/dto"
	"zimtrader/internal/domain"
	"zimtrader/internal/middleware"
	"zimtrader/internal/service"
)

// ComplianceHandler handles KYC submissions, KYC review and AML alerts
type ComplianceHandler struct {
	complianceService *service.ComplianceService
	auditService      *service.AuditService
}

// NewComplianceHandler creates a new ComplianceHandler
func NewComplianceHandler(complianceService *service.ComplianceService, auditService *service.AuditService) *ComplianceHandler {
	return &ComplianceHandler{
		complianceService: complianceService,
		auditService:      auditService,
	}
}

// SubmitKYC stores the caller's KYC submission with pending status
// POST /api/kyc
func (h *ComplianceHandler) SubmitKYC(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	var req dto.KYCRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	record, err := h.complianceService.SubmitKYC(c.Request().Context(), userID, service.KYCInput{
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		IDType:      req.IDType,
		IDNumber:    req.IDNumber,
		Address:     req.Address,
		Phone:       req.Phone,
	})
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	return CreatedResponse(c, record)
}

// ListPendingKYC returns KYC records awaiting review, oldest first
// GET /api/compliance/kyc
func (h *ComplianceHandler) ListPendingKYC(c echo.Context) error {
	records, err := h.complianceService.PendingKYC(c.Request().Context(), queryLimit(c, 50))
	if err != nil {
		return ServiceErrorResponse(c, err)
	}
	return SuccessResponse(c, records)
}

// ReviewKYC records an approve or reject decision on a KYC record
// POST /api/compliance/kyc/:id/review
func (h *ComplianceHandler) ReviewKYC(c echo.Context) error {
	reviewerID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid KYC record ID")
	}

	var req dto.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.complianceService.ReviewKYC(c.Request().Context(), recordID, reviewerID, req.Approve, req.Reason); err != nil {
		return ServiceErrorResponse(c, err)
	}

	h.auditService.Record(c.Request().Context(), auditEntry(c, reviewerID,
		domain.AuditActionKYCReviewed, "kyc_record", recordID.String(),
		map[string]any{"approved": req.Approve}))

	return SuccessMessageResponse(c, "KYC record reviewed", nil)
}

// ListAlerts returns open AML alerts, newest first
// GET /api/compliance/alerts
func (h *ComplianceHandler) ListAlerts(c echo.Context) error {
	alerts, err := h.complianceService.OpenAlerts(c.Request().Context(), queryLimit(c, 50))
	if err != nil {
		return ServiceErrorResponse(c, err)
	}
	return SuccessResponse(c, alerts)
}

// ResolveAlert marks an AML alert resolved
// POST /api/compliance/alerts/:id/resolve
func (h *ComplianceHandler) ResolveAlert(c echo.Context) error {
	resolverID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid alert ID")
	}

	var req dto.ResolveAlertRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.complianceService.ResolveAlert(c.Request().Context(), alertID, resolverID, req.Notes); err != nil {
		return ServiceErrorResponse(c, err)
	}

	h.auditService.Record(c.Request().Context(), auditEntry(c, resolverID,
		domain.AuditActionAlertResolved, "aml_alert", alertID.String(), nil))

	return SuccessMessageResponse(c, "Alert resolved", nil)
}
