package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/hotelops/reclamations-backend/pkg/db/types"
	"github.com/hotelops/reclamations-backend/pkg/enums"
)

// Reclamation is a maintenance/service ticket raised against departments.
// AssignedTo holds the assignee's display name at assignment time.
type Reclamation struct {
	ID          uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	Subject     string                  `gorm:"column:subject;not null" json:"subject"`
	Description string                  `gorm:"column:description;not null" json:"description"`
	Departments dbtypes.StringArray     `gorm:"column:departments;type:text[];not null" json:"departments"`
	Priority    enums.Priority          `gorm:"column:priority;not null;default:1" json:"priority"`
	Status      enums.ReclamationStatus `gorm:"column:status;type:text;not null;default:'New'" json:"status"`
	Location    string                  `gorm:"column:location;not null" json:"location"`
	AssignedTo  string                  `gorm:"column:assigned_to;not null;default:''" json:"assignedTo"`
	CreatedBy   string                  `gorm:"column:created_by;not null" json:"createdBy"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   *time.Time              `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt,omitempty"`
}
