package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
)

// Repository reads and writes account and seller-profile rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		First(&row, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	return row, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return row, err
}

func (r *Repository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// CreateSeller upgrades an account with a vendor profile. The role flip
// and profile insert commit together.
func (r *Repository) CreateSeller(ctx context.Context, userID uuid.UUID, seller *models.Seller) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(seller).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("role", "seller").Error
	})
}

func (r *Repository) SellerByUserID(ctx context.Context, userID uuid.UUID) (models.Seller, error) {
	var row models.Seller
	err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	return row, err
}
