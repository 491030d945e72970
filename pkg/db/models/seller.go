package models

import (
	"time"

	"github.com/google/uuid"
)

// Seller is the farm/vendor profile shown on product detail pages.
// UserID links the profile to an account once the owner registers.
type Seller struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      *uuid.UUID `gorm:"column:user_id;type:uuid"`
	Name        string     `gorm:"column:name;not null"`
	Location    string     `gorm:"column:location;not null"`
	Rating      float64    `gorm:"column:rating;not null;default:0"`
	ReviewCount int        `gorm:"column:review_count;not null;default:0"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
