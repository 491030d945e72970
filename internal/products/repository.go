package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/pagination"
)

// Repository reads and writes catalog rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns active listings newest-first, filtered and keyed by the
// (created_at, id) cursor. Callers pass limit+1 to detect a next page.
func (r *Repository) List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Seller").
		Where("is_active = ?", true)

	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		query = query.Where("? = ANY(tags)", tag)
	}
	if filter.SellerID > 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// GetByID loads one listing with its seller, active or not.
func (r *Repository) GetByID(ctx context.Context, id int64) (models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Seller").
		First(&row, "id = ?", id).Error
	return row, err
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SellerByUserID resolves the seller profile owned by an account.
func (r *Repository) SellerByUserID(ctx context.Context, userID uuid.UUID) (models.Seller, error) {
	var row models.Seller
	err := r.db.WithContext(ctx).
		First(&row, "user_id = ?", userID).Error
	return row, err
}

// SellerByID loads a seller profile directly.
func (r *Repository) SellerByID(ctx context.Context, id int64) (models.Seller, error) {
	var row models.Seller
	err := r.db.WithContext(ctx).
		First(&row, "id = ?", id).Error
	return row, err
}
