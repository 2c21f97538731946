package reclamations

import (
	"github.com/hotelops/reclamations-backend/pkg/db/models"
	"github.com/hotelops/reclamations-backend/pkg/enums"
)

// Scope is the set of reclamations a user may see.
type Scope struct {
	all         bool
	departments []string
}

// ScopeFor derives the visibility scope of the user. Admins see everything,
// staff see reclamations sharing a department, anything else sees nothing.
func ScopeFor(user *models.User) Scope {
	if user == nil {
		return Scope{}
	}
	switch user.Role {
	case enums.RoleAdmin:
		return Scope{all: true}
	case enums.RoleStaff:
		return Scope{departments: append([]string(nil), user.Departments...)}
	default:
		return Scope{}
	}
}

// Allows reports whether rec falls inside the scope.
func (s Scope) Allows(rec models.Reclamation) bool {
	if s.all {
		return true
	}
	return rec.Departments.Intersects(s.departments)
}

// Filter keeps the reclamations the scope allows, preserving order.
func (s Scope) Filter(list []models.Reclamation) []models.Reclamation {
	out := make([]models.Reclamation, 0, len(list))
	for _, rec := range list {
		if s.Allows(rec) {
			out = append(out, rec)
		}
	}
	return out
}
