package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/greenmandi/greenmandi-backend/pkg/enums"
)

// User is a storefront account (customer by default, seller after
// seller registration).
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FullName     string         `gorm:"column:full_name;not null"`
	Phone        *string        `gorm:"column:phone"`
	Address      *string        `gorm:"column:address"`
	AvatarKey    *string        `gorm:"column:avatar_key"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	Language     string         `gorm:"column:language;not null;default:'en'"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
