package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/greenmandi/greenmandi-backend/pkg/enums"
)

// Media is the metadata row behind an opaque image key. The storefront
// treats the key as a reference; bytes live wherever the deployment's
// object store does.
type Media struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerUserID uuid.UUID       `gorm:"column:owner_user_id;type:uuid;not null;index"`
	Kind        enums.MediaKind `gorm:"column:kind;not null"`
	ObjectKey   string          `gorm:"column:object_key;uniqueIndex;not null"`
	ContentType string          `gorm:"column:content_type;not null"`
	SizeBytes   int64           `gorm:"column:size_bytes;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
