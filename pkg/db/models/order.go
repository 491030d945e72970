package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/greenmandi/greenmandi-backend/pkg/enums"
)

// Order is a checkout snapshot of the buyer's cart.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:'placed'"`
	SubtotalRupees int64             `gorm:"column:subtotal_rupees;not null"`
	TotalRupees    int64             `gorm:"column:total_rupees;not null"`
	Items          []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem freezes one cart line at checkout time. Negotiated marks
// lines whose unit price came from an accepted bulk offer.
type OrderLineItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID       int64     `gorm:"column:product_id;not null"`
	Name            string    `gorm:"column:name;not null"`
	ImageKey        *string   `gorm:"column:image_key"`
	UnitPriceRupees int64     `gorm:"column:unit_price_rupees;not null"`
	Quantity        int       `gorm:"column:quantity;not null"`
	LineTotalRupees int64     `gorm:"column:line_total_rupees;not null"`
	Negotiated      bool      `gorm:"column:negotiated;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
