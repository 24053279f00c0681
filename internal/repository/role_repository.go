package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"zimtrader/internal/domain"
)

// RoleRepositoryImpl implements the RoleRepository interface
type RoleRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *pgxpool.Pool) domain.RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

// GetRolesByUserID retrieves the set of roles assigned to a user.
// A user with no role rows yields an empty slice.
func (r *RoleRepositoryImpl) GetRolesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Role, error) {
	query := `
		SELECT role
		FROM user_roles
		WHERE user_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}

	return roles, nil
}

// Assign creates a (user, role) assignment. Re-assigning an existing role
// is a no-op rather than an error.
func (r *RoleRepositoryImpl) Assign(ctx context.Context, assignment *domain.RoleAssignment) error {
	query := `
		INSERT INTO user_roles (id, user_id, role, assigned_by, assigned_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, role) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		assignment.ID,
		assignment.UserID,
		assignment.Role,
		assignment.AssignedBy,
		assignment.AssignedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	return nil
}

// Revoke removes a (user, role) assignment
func (r *RoleRepositoryImpl) Revoke(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	query := `
		DELETE FROM user_roles
		WHERE user_id = $1 AND role = $2
	`

	_, err := r.db.Exec(ctx, query, userID, role)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	return nil
}
