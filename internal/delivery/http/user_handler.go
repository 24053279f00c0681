package http

import (
	"github.com/labstack/echo/v4"

	"zimtrader/internal/domain"
	"zimtrader/internal/middleware"
	"zimtrader/internal/service"
)

// UserHandler handles requests about the authenticated user
type UserHandler struct {
	userRepo    domain.UserRepository
	profileRepo domain.ProfileRepository
	roleService *service.RoleService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo domain.UserRepository, profileRepo domain.ProfileRepository, roleService *service.RoleService) *UserHandler {
	return &UserHandler{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		roleService: roleService,
	}
}

// GetMe returns the caller's account, wallet profile and role set
// GET /api/user/me
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	ctx := c.Request().Context()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	profile, err := h.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	roles, err := h.roleService.GetRoles(ctx, userID)
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]interface{}{
		"user":    user,
		"profile": profile,
		"roles":   roles,
	})
}

// GetRoles returns the caller's role set. The client uses this for
// navigation decisions; the server still enforces roles on every gated
// route.
// GET /api/user/roles
func (h *UserHandler) GetRoles(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	roles, err := h.roleService.GetRoles(c.Request().Context(), userID)
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]interface{}{"roles": roles})
}
