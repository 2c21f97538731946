package reclamations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hotelops/reclamations-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists reclamations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reclamations repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the reclamation, assigning an id when missing.
func (r *Repository) Create(ctx context.Context, rec *models.Reclamation) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

// FindByID loads one reclamation.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reclamation, error) {
	var rec models.Reclamation
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns every reclamation, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Reclamation, error) {
	var list []models.Reclamation
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save writes every column of rec.
func (r *Repository) Save(ctx context.Context, rec *models.Reclamation) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// Delete removes the reclamation and reports whether a row was affected.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reclamation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IsNotFound reports whether err is the gorm missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
