package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zimtrader/internal/domain"
)

// RoleService answers capability questions against the role-assignment
// relation. Roles are fetched fresh for every check; they can change between
// requests and navigation decisions must see the current set.
type RoleService struct {
	roleRepo domain.RoleRepository
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo domain.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

// GetRoles returns the roles assigned to the user. A user with no role rows
// gets an empty set, not an error.
func (s *RoleService) GetRoles(ctx context.Context, userID uuid.UUID) ([]domain.Role, error) {
	roles, err := s.roleRepo.GetRolesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roles: %w", err)
	}
	return roles, nil
}

// HasRole reports whether the user holds the given role
func (s *RoleService) HasRole(ctx context.Context, userID uuid.UUID, role domain.Role) (bool, error) {
	return s.HasAnyRole(ctx, userID, role)
}

// HasAnyRole reports whether the user holds at least one of the given roles
func (s *RoleService) HasAnyRole(ctx context.Context, userID uuid.UUID, required ...domain.Role) (bool, error) {
	roles, err := s.roleRepo.GetRolesByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve roles: %w", err)
	}

	for _, held := range roles {
		for _, want := range required {
			if held == want {
				return true, nil
			}
		}
	}
	return false, nil
}

// AssignRole grants a role to a user. The role must be part of the closed
// enumeration.
func (s *RoleService) AssignRole(ctx context.Context, userID uuid.UUID, role domain.Role, assignedBy uuid.UUID) error {
	if !domain.ValidRole(role) {
		return domain.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}

	assignment := &domain.RoleAssignment{
		ID:         uuid.New(),
		UserID:     userID,
		Role:       role,
		AssignedBy: &assignedBy,
		AssignedAt: time.Now().UTC(),
	}
	return s.roleRepo.Assign(ctx, assignment)
}

// RevokeRole removes a role from a user
func (s *RoleService) RevokeRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	if !domain.ValidRole(role) {
		return domain.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}
	return s.roleRepo.Revoke(ctx, userID, role)
}
