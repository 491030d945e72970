package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/pagination"
)

// Repository persists orders and their payments.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithPayment inserts the order, its line items, and the payment
// row in one transaction.
func (r *Repository) CreateWithPayment(ctx context.Context, order *models.Order, payment *models.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		payment.OrderID = order.ID
		return tx.Create(payment).Error
	})
}

// GetByID loads one order with its items, scoped to the owner.
func (r *Repository) GetByID(ctx context.Context, userID, orderID uuid.UUID) (models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "id = ? AND user_id = ?", orderID, userID).Error
	return row, err
}

// ListByUser returns the user's orders newest-first under the
// (created_at, id) cursor. Callers pass limit+1 to detect a next page.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Where("user_id = ?", userID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// PaymentByOrderID loads the settlement row for one order.
func (r *Repository) PaymentByOrderID(ctx context.Context, orderID uuid.UUID) (models.Payment, error) {
	var row models.Payment
	err := r.db.WithContext(ctx).
		First(&row, "order_id = ?", orderID).Error
	return row, err
}

// ListPaymentsByUser returns the user's payment history newest-first.
func (r *Repository) ListPaymentsByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Payment, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("user_id = ?", userID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Payment
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
