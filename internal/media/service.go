package media

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/pkg/config"
	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

// extensionByContentType is the accepted image surface. Anything else is
// rejected before a key is minted.
var extensionByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// RegisterInput describes an upload the client is about to perform.
type RegisterInput struct {
	Kind        enums.MediaKind `json:"kind" validate:"required"`
	ContentType string          `json:"content_type" validate:"required"`
	SizeBytes   int64           `json:"size_bytes" validate:"required,min=1"`
	Width       int             `json:"width" validate:"omitempty,min=1"`
	Height      int             `json:"height" validate:"omitempty,min=1"`
}

// View is the registered media reference. ObjectKey is the opaque handle
// stored on products and profiles.
type View struct {
	ID          uuid.UUID       `json:"id"`
	Kind        enums.MediaKind `json:"kind"`
	ObjectKey   string          `json:"object_key"`
	ContentType string          `json:"content_type"`
	SizeBytes   int64           `json:"size_bytes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Store is the persistence surface the media service consumes.
type Store interface {
	Create(ctx context.Context, row *models.Media) error
	GetByKey(ctx context.Context, objectKey string) (models.Media, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Media, error)
}

// Service mints object keys and tracks upload metadata.
type Service interface {
	Register(ctx context.Context, ownerID uuid.UUID, in RegisterInput) (View, error)
	Resolve(ctx context.Context, objectKey string) (View, error)
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]View, error)
}

type service struct {
	store Store
	cfg   config.MediaConfig
	logg  *logger.Logger
}

func NewService(store Store, cfg config.MediaConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("media: store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("media: logger is required")
	}
	return &service{store: store, cfg: cfg, logg: logg}, nil
}

func (s *service) Register(ctx context.Context, ownerID uuid.UUID, in RegisterInput) (View, error) {
	if !in.Kind.IsValid() {
		return View{}, errors.New(errors.CodeValidation, "unknown media kind")
	}
	ext, ok := extensionByContentType[in.ContentType]
	if !ok {
		return View{}, errors.New(errors.CodeValidation, "unsupported content type")
	}
	maxBytes := int64(s.cfg.MaxUploadMB) * 1024 * 1024
	if maxBytes > 0 && in.SizeBytes > maxBytes {
		return View{}, errors.New(errors.CodeValidation,
			fmt.Sprintf("upload exceeds %d MB limit", s.cfg.MaxUploadMB))
	}
	if s.cfg.ImageMaxWidth > 0 && in.Width > s.cfg.ImageMaxWidth {
		return View{}, errors.New(errors.CodeValidation,
			fmt.Sprintf("image wider than %d px", s.cfg.ImageMaxWidth))
	}
	if s.cfg.ImageMaxHeight > 0 && in.Height > s.cfg.ImageMaxHeight {
		return View{}, errors.New(errors.CodeValidation,
			fmt.Sprintf("image taller than %d px", s.cfg.ImageMaxHeight))
	}

	row := models.Media{
		OwnerUserID: ownerID,
		Kind:        in.Kind,
		ObjectKey:   fmt.Sprintf("%s/%s.%s", in.Kind, uuid.NewString(), ext),
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
	}
	if err := s.store.Create(ctx, &row); err != nil {
		return View{}, errors.Wrap(errors.CodeDependency, err, "registering media")
	}

	s.logg.Info(s.logg.WithField(ctx, "object_key", row.ObjectKey), "media registered")
	return toView(row), nil
}

func (s *service) Resolve(ctx context.Context, objectKey string) (View, error) {
	row, err := s.store.GetByKey(ctx, objectKey)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return View{}, errors.New(errors.CodeNotFound, "media not found")
		}
		return View{}, errors.Wrap(errors.CodeDependency, err, "resolving media")
	}
	return toView(row), nil
}

func (s *service) ListMine(ctx context.Context, ownerID uuid.UUID) ([]View, error) {
	rows, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing media")
	}
	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(row))
	}
	return views, nil
}

func toView(m models.Media) View {
	return View{
		ID:          m.ID,
		Kind:        m.Kind,
		ObjectKey:   m.ObjectKey,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		CreatedAt:   m.CreatedAt,
	}
}
