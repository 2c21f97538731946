package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/reclamations-backend/pkg/db/models"
	dbtypes "github.com/hotelops/reclamations-backend/pkg/db/types"
	"github.com/hotelops/reclamations-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        enums.Role `json:"role"`
	Departments []string   `json:"departments"`
	AddedBy     *string    `json:"addedBy,omitempty"`
	ModifiedBy  *string    `json:"modifiedBy,omitempty"`
	PlayerIDs   []string   `json:"playerIds"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Role         enums.Role
	Departments  []string
	AddedBy      *string
}

// Actor identifies the authenticated account performing a mutation. A nil
// actor means the request was anonymous.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role enums.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == enums.RoleAdmin
}

func (a *Actor) displayName() *string {
	if a == nil || a.Name == "" {
		return nil
	}
	name := a.Name
	return &name
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Departments: copyStrings(u.Departments),
		AddedBy:     u.AddedBy,
		ModifiedBy:  u.ModifiedBy,
		PlayerIDs:   copyStrings(u.PlayerIDs),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// FromModels projects a slice of users.
func FromModels(list []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleStaff
	}

	return &models.User{
		ID:           uuid.New(),
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         role,
		Departments:  dbtypes.StringArray(copyStrings(c.Departments)),
		AddedBy:      c.AddedBy,
		PlayerIDs:    dbtypes.StringArray{},
	}
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}
