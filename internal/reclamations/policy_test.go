package reclamations

import (
	"math/rand"
	"testing"

	"github.com/hotelops/reclamations-backend/pkg/db/models"
	dbtypes "github.com/hotelops/reclamations-backend/pkg/db/types"
	"github.com/hotelops/reclamations-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
)

func TestScopeForRoles(t *testing.T) {
	rec := models.Reclamation{Departments: dbtypes.StringArray{"Spa"}}

	assert.True(t, ScopeFor(&models.User{Role: enums.RoleAdmin}).Allows(rec))
	assert.True(t, ScopeFor(&models.User{Role: enums.RoleStaff, Departments: dbtypes.StringArray{"Spa", "IT"}}).Allows(rec))
	assert.False(t, ScopeFor(&models.User{Role: enums.RoleStaff, Departments: dbtypes.StringArray{"IT"}}).Allows(rec))
	assert.False(t, ScopeFor(&models.User{Role: enums.RoleStaff}).Allows(rec))
	assert.False(t, ScopeFor(&models.User{Role: "guest", Departments: dbtypes.StringArray{"Spa"}}).Allows(rec))
	assert.False(t, ScopeFor(nil).Allows(rec))
}

func randomDepartments(rng *rand.Rand) dbtypes.StringArray {
	all := enums.Departments()
	out := dbtypes.StringArray{}
	for _, d := range all {
		if rng.Intn(4) == 0 {
			out = append(out, string(d))
		}
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Generated users and reclamations: admins see all, staff see exactly the
// intersecting ones, other roles see none.
func TestScopeFilterProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	roles := []enums.Role{enums.RoleAdmin, enums.RoleStaff, "", "owner"}

	for iteration := 0; iteration < 200; iteration++ {
		user := &models.User{
			Role:        roles[rng.Intn(len(roles))],
			Departments: randomDepartments(rng),
		}
		list := make([]models.Reclamation, rng.Intn(12))
		for i := range list {
			list[i] = models.Reclamation{Subject: string(rune('a' + i)), Departments: randomDepartments(rng)}
		}

		got := ScopeFor(user).Filter(list)

		var want []models.Reclamation
		for _, rec := range list {
			switch {
			case user.Role == enums.RoleAdmin:
				want = append(want, rec)
			case user.Role == enums.RoleStaff && intersects(user.Departments, rec.Departments):
				want = append(want, rec)
			}
		}
		if want == nil {
			want = []models.Reclamation{}
		}
		assert.Equal(t, want, got, "iteration %d role %q", iteration, user.Role)
	}
}
