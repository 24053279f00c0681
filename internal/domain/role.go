package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is an access-control label assigned to a user
type Role string

// Role constants. The enumeration is closed; role-gated routes and
// resolver checks must match these values exactly.
const (
	RoleAdmin      Role = "admin"
	RoleTrader     Role = "trader"
	RoleAuditor    Role = "auditor"
	RoleCompliance Role = "compliance"
	RoleOperator   Role = "operator"
)

// AllRoles lists every role in the closed enumeration
var AllRoles = []Role{RoleAdmin, RoleTrader, RoleAuditor, RoleCompliance, RoleOperator}

// ValidRole reports whether r is part of the role enumeration
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleTrader, RoleAuditor, RoleCompliance, RoleOperator:
		return true
	}
	return false
}

// RoleAssignment is a (user, role) pair
type RoleAssignment struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Role       Role       `json:"role"`
	AssignedBy *uuid.UUID `json:"assigned_by,omitempty"`
	AssignedAt time.Time  `json:"assigned_at"`
}
