package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
)

// Repository persists media metadata rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, row *models.Media) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) GetByKey(ctx context.Context, objectKey string) (models.Media, error) {
	var row models.Media
	err := r.db.WithContext(ctx).
		First(&row, "object_key = ?", objectKey).Error
	return row, err
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Media, error) {
	var rows []models.Media
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
