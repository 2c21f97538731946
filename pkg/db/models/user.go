package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/hotelops/reclamations-backend/pkg/db/types"
	"github.com/hotelops/reclamations-backend/pkg/enums"
)

// User is a staff or admin account.
type User struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name         string              `gorm:"column:name;not null;index"`
	Email        string              `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string              `gorm:"column:password_hash;not null"`
	Role         enums.Role          `gorm:"column:role;type:text;not null;default:staff"`
	Departments  dbtypes.StringArray `gorm:"column:departments;type:text[];not null"`
	AddedBy      *string             `gorm:"column:added_by"`
	ModifiedBy   *string             `gorm:"column:modified_by"`
	PlayerIDs    dbtypes.StringArray `gorm:"column:player_ids;type:text[];not null"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == enums.RoleAdmin
}
