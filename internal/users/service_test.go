package users

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

type stubStore struct {
	users   map[uuid.UUID]models.User
	sellers map[uuid.UUID]models.Seller
}

func newStubStore() *stubStore {
	return &stubStore{
		users:   map[uuid.UUID]models.User{},
		sellers: map[uuid.UUID]models.Seller{},
	}
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubStore) Update(_ context.Context, user *models.User) error {
	s.users[user.ID] = *user
	return nil
}

func (s *stubStore) CreateSeller(_ context.Context, userID uuid.UUID, seller *models.Seller) error {
	seller.ID = 500
	s.sellers[userID] = *seller
	u := s.users[userID]
	u.Role = enums.UserRoleSeller
	s.users[userID] = u
	return nil
}

func (s *stubStore) SellerByUserID(_ context.Context, userID uuid.UUID) (models.Seller, error) {
	seller, ok := s.sellers[userID]
	if !ok {
		return models.Seller{}, gorm.ErrRecordNotFound
	}
	return seller, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func seedUser(store *stubStore) models.User {
	u := models.User{
		ID:       uuid.New(),
		Email:    "asha@example.com",
		FullName: "Asha Kulkarni",
		Role:     enums.UserRoleCustomer,
		Language: "en",
	}
	store.users[u.ID] = u
	return u
}

func TestGetUnknownAccount(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubStore(), testLogger())
	_, err := svc.Get(context.Background(), uuid.New())
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("Get = %v, want not found", err)
	}
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	u := seedUser(store)
	svc, _ := NewService(store, testLogger())

	phone := "+91 98200 12345"
	lang := "hi"
	view, err := svc.Update(context.Background(), u.ID, UpdateProfileInput{Phone: &phone, Language: &lang})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if view.Phone == nil || *view.Phone != phone {
		t.Fatalf("phone = %v", view.Phone)
	}
	if view.Language != "hi" {
		t.Fatalf("language = %q", view.Language)
	}
	if view.FullName != "Asha Kulkarni" || view.Email != "asha@example.com" {
		t.Fatalf("untouched fields changed: %+v", view)
	}
}

func TestBecomeSellerFlipsRoleOnce(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	u := seedUser(store)
	svc, _ := NewService(store, testLogger())

	view, err := svc.BecomeSeller(context.Background(), u.ID, BecomeSellerInput{
		FarmName: "Kulkarni Greens", Location: "Pune",
	})
	if err != nil {
		t.Fatalf("BecomeSeller: %v", err)
	}
	if view.Role != enums.UserRoleSeller {
		t.Fatalf("role = %s, want seller", view.Role)
	}
	if store.sellers[u.ID].Name != "Kulkarni Greens" {
		t.Fatalf("seller profile = %+v", store.sellers[u.ID])
	}

	_, err = svc.BecomeSeller(context.Background(), u.ID, BecomeSellerInput{
		FarmName: "Second Farm", Location: "Pune",
	})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("second BecomeSeller = %v, want conflict", err)
	}
}
