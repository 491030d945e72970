package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/greenmandi/greenmandi-backend/pkg/enums"
)

// Payment records how an order was settled (the payment-history view).
type Payment struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	UserID       uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Method       enums.PaymentMethod `gorm:"column:method;not null"`
	Status       enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	AmountRupees int64               `gorm:"column:amount_rupees;not null"`
	Reference    string              `gorm:"column:reference;not null"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
}
