package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/greenmandi/greenmandi-backend/pkg/enums"
)

// Product is a farm listing. Prices are whole rupees per unit; the
// storefront never prices below one rupee.
type Product struct {
	ID           int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string            `gorm:"column:name;not null"`
	Description  string            `gorm:"column:description;not null"`
	PriceRupees  int64             `gorm:"column:price_rupees;not null"`
	AvailableQty int               `gorm:"column:available_qty;not null;default:0"`
	Unit         enums.ProductUnit `gorm:"column:unit;not null;default:'kg'"`
	ImageKey     *string           `gorm:"column:image_key"`
	Tags         pq.StringArray    `gorm:"column:tags;type:text[]"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true"`
	SellerID     int64             `gorm:"column:seller_id;not null"`
	Seller       *Seller           `gorm:"foreignKey:SellerID"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
