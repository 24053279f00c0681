package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zimtrader/internal/domain"
)

type fakeRoleRepo struct {
	roles    map[uuid.UUID][]domain.Role
	assigned []*domain.RoleAssignment
	revoked  []domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[uuid.UUID][]domain.Role)}
}

func (r *fakeRoleRepo) GetRolesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Role, error) {
	return r.roles[userID], nil
}

func (r *fakeRoleRepo) Assign(ctx context.Context, assignment *domain.RoleAssignment) error {
	r.assigned = append(r.assigned, assignment)
	r.roles[assignment.UserID] = append(r.roles[assignment.UserID], assignment.Role)
	return nil
}

func (r *fakeRoleRepo) Revoke(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	r.revoked = append(r.revoked, role)
	return nil
}

func TestHasAnyRoleEmptySetIsFalse(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo)

	// a user with no role rows is answered, not errored
	ok, err := svc.HasAnyRole(context.Background(), uuid.New(), domain.RoleAdmin, domain.RoleCompliance)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasAnyRoleMatches(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo)
	userID := uuid.New()
	repo.roles[userID] = []domain.Role{domain.RoleTrader, domain.RoleAuditor}

	ok, err := svc.HasAnyRole(context.Background(), userID, domain.RoleAdmin, domain.RoleAuditor)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasAnyRole(context.Background(), userID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssignRoleRejectsUnknownRole(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo)

	err := svc.AssignRole(context.Background(), uuid.New(), domain.Role("superuser"), uuid.New())
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, repo.assigned)
}

func TestAssignAndRevokeRole(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo)
	userID := uuid.New()
	adminID := uuid.New()

	require.NoError(t, svc.AssignRole(context.Background(), userID, domain.RoleCompliance, adminID))
	require.Len(t, repo.assigned, 1)
	assert.Equal(t, domain.RoleCompliance, repo.assigned[0].Role)
	require.NotNil(t, repo.assigned[0].AssignedBy)
	assert.Equal(t, adminID, *repo.assigned[0].AssignedBy)

	require.NoError(t, svc.RevokeRole(context.Background(), userID, domain.RoleCompliance))
	assert.Equal(t, []domain.Role{domain.RoleCompliance}, repo.revoked)
}
