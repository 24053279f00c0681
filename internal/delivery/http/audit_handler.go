package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"zimtrader/internal/domain"
	"zimtrader/internal/service"
)

// AuditHandler exposes the audit trail to auditors
type AuditHandler struct {
	auditService *service.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListEntries returns recent audit entries, newest first
// GET /api/audit
func (h *AuditHandler) ListEntries(c echo.Context) error {
	entries, err := h.auditService.Recent(c.Request().Context(), queryLimit(c, 100))
	if err != nil {
		return ServiceErrorResponse(c, err)
	}
	return SuccessResponse(c, entries)
}

// auditEntry assembles an audit log entry from the request context: caller
// identity, client address, user agent and the request id as session marker.
func auditEntry(c echo.Context, userID uuid.UUID, action, resourceType, resourceID string, details map[string]any) domain.AuditLog {
	entry := domain.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		Details:      details,
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if ip := c.RealIP(); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := c.Request().UserAgent(); ua != "" {
		entry.UserAgent = &ua
	}
	if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
		entry.SessionID = &requestID
	}
	return entry
}
