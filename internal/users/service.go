package users

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

// ProfileView is the account shape returned to its owner.
type ProfileView struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Phone     *string        `json:"phone"`
	Address   *string        `json:"address"`
	Avatar    *string        `json:"avatar"`
	Role      enums.UserRole `json:"role"`
	Language  string         `json:"language"`
	CreatedAt time.Time      `json:"created_at"`
}

// UpdateProfileInput patches the owner-editable fields. Nil leaves a
// field alone.
type UpdateProfileInput struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=2,max=120"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
	AvatarKey *string `json:"avatar_key"`
	Language  *string `json:"language" validate:"omitempty,oneof=en hi mr"`
}

// BecomeSellerInput opens a vendor profile for the account.
type BecomeSellerInput struct {
	FarmName string `json:"farm_name" validate:"required,min=2,max=120"`
	Location string `json:"location" validate:"required,min=2,max=200"`
}

// Store is the persistence surface the profile service consumes.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	Update(ctx context.Context, user *models.User) error
	CreateSeller(ctx context.Context, userID uuid.UUID, seller *models.Seller) error
	SellerByUserID(ctx context.Context, userID uuid.UUID) (models.Seller, error)
}

// Service manages the signed-in user's own profile.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (ProfileView, error)
	Update(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (ProfileView, error)
	BecomeSeller(ctx context.Context, userID uuid.UUID, in BecomeSellerInput) (ProfileView, error)
}

type service struct {
	store Store
	logg  *logger.Logger
}

func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("users: store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("users: logger is required")
	}
	return &service{store: store, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (ProfileView, error) {
	row, err := s.load(ctx, userID)
	if err != nil {
		return ProfileView{}, err
	}
	return toProfileView(row), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (ProfileView, error) {
	row, err := s.load(ctx, userID)
	if err != nil {
		return ProfileView{}, err
	}

	if in.FullName != nil {
		row.FullName = *in.FullName
	}
	if in.Phone != nil {
		row.Phone = in.Phone
	}
	if in.Address != nil {
		row.Address = in.Address
	}
	if in.AvatarKey != nil {
		row.AvatarKey = in.AvatarKey
	}
	if in.Language != nil {
		row.Language = *in.Language
	}

	if err := s.store.Update(ctx, &row); err != nil {
		return ProfileView{}, errors.Wrap(errors.CodeDependency, err, "updating profile")
	}
	return toProfileView(row), nil
}

func (s *service) BecomeSeller(ctx context.Context, userID uuid.UUID, in BecomeSellerInput) (ProfileView, error) {
	row, err := s.load(ctx, userID)
	if err != nil {
		return ProfileView{}, err
	}

	if _, err := s.store.SellerByUserID(ctx, userID); err == nil {
		return ProfileView{}, errors.New(errors.CodeConflict, "account already has a seller profile")
	} else if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return ProfileView{}, errors.Wrap(errors.CodeDependency, err, "checking seller profile")
	}

	seller := models.Seller{
		UserID:   &row.ID,
		Name:     in.FarmName,
		Location: in.Location,
	}
	if err := s.store.CreateSeller(ctx, userID, &seller); err != nil {
		return ProfileView{}, errors.Wrap(errors.CodeDependency, err, "creating seller profile")
	}
	row.Role = enums.UserRoleSeller

	s.logg.Info(s.logg.WithField(ctx, "seller_id", seller.ID), "seller profile created")
	return toProfileView(row), nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (models.User, error) {
	row, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, errors.New(errors.CodeNotFound, "account not found")
		}
		return models.User{}, errors.Wrap(errors.CodeDependency, err, "loading account")
	}
	return row, nil
}

func toProfileView(u models.User) ProfileView {
	return ProfileView{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Address:   u.Address,
		Avatar:    u.AvatarKey,
		Role:      u.Role,
		Language:  u.Language,
		CreatedAt: u.CreatedAt,
	}
}
