package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"zimtrader/internal/delivery/http/dto"
	"zimtrader/internal/domain"
	"zimtrader/internal/middleware"
	"zimtrader/internal/service"
)

// AdminHandler handles user administration and role management
type AdminHandler struct {
	userRepo     domain.UserRepository
	roleService  *service.RoleService
	auditService *service.AuditService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userRepo domain.UserRepository, roleService *service.RoleService, auditService *service.AuditService) *AdminHandler {
	return &AdminHandler{
		userRepo:     userRepo,
		roleService:  roleService,
		auditService: auditService,
	}
}

// ListUsers returns all users with their role sets
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.userRepo.GetAll(ctx)
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	type userWithRoles struct {
		*domain.User
		Roles []domain.Role `json:"roles"`
	}

	out := make([]userWithRoles, 0, len(users))
	for _, u := range users {
		roles, err := h.roleService.GetRoles(ctx, u.ID)
		if err != nil {
			return ServiceErrorResponse(c, err)
		}
		out = append(out, userWithRoles{User: u, Roles: roles})
	}

	return SuccessResponse(c, out)
}

// AssignRole grants a role to a user
// POST /api/admin/users/:id/roles
func (h *AdminHandler) AssignRole(c echo.Context) error {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid user ID")
	}

	var req dto.RoleRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.roleService.AssignRole(c.Request().Context(), targetID, domain.Role(req.Role), adminID); err != nil {
		return ServiceErrorResponse(c, err)
	}

	h.auditService.Record(c.Request().Context(), auditEntry(c, adminID,
		domain.AuditActionRoleAssigned, "user", targetID.String(),
		map[string]any{"role": req.Role}))

	return SuccessMessageResponse(c, "Role assigned", nil)
}

// RevokeRole removes a role from a user
// DELETE /api/admin/users/:id/roles
func (h *AdminHandler) RevokeRole(c echo.Context) error {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid user ID")
	}

	var req dto.RoleRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.roleService.RevokeRole(c.Request().Context(), targetID, domain.Role(req.Role)); err != nil {
		return ServiceErrorResponse(c, err)
	}

	h.auditService.Record(c.Request().Context(), auditEntry(c, adminID,
		domain.AuditActionRoleRevoked, "user", targetID.String(),
		map[string]any{"role": req.Role}))

	return SuccessMessageResponse(c, "Role revoked", nil)
}
