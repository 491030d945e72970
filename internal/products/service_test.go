package products

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
	"github.com/greenmandi/greenmandi-backend/pkg/pagination"
)

type stubStore struct {
	products map[int64]models.Product
	sellers  map[uuid.UUID]models.Seller
	listErr  error
	nextID   int64
}

func newStubStore() *stubStore {
	return &stubStore{
		products: map[int64]models.Product{},
		sellers:  map[uuid.UUID]models.Seller{},
		nextID:   100,
	}
}

func (s *stubStore) List(_ context.Context, filter ListFilter, limit int, _ *pagination.Cursor) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var rows []models.Product
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		if filter.SellerID > 0 && p.SellerID != filter.SellerID {
			continue
		}
		rows = append(rows, p)
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func (s *stubStore) GetByID(_ context.Context, id int64) (models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubStore) Create(_ context.Context, product *models.Product) error {
	s.nextID++
	product.ID = s.nextID
	product.CreatedAt = time.Now()
	s.products[product.ID] = *product
	return nil
}

func (s *stubStore) Update(_ context.Context, product *models.Product) error {
	s.products[product.ID] = *product
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

func seedSeller(store *stubStore) (uuid.UUID, models.Seller) {
	userID := uuid.New()
	seller := models.Seller{ID: 123, Name: "Patil Family Farm", Location: "Nashik"}
	store.sellers[userID] = seller
	return userID, seller
}

func TestGetHidesInactiveAndMissingProducts(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.products[1] = models.Product{ID: 1, Name: "Organic Tomatoes", IsActive: true, Seller: &models.Seller{ID: 123}}
	store.products[2] = models.Product{ID: 2, Name: "Retired Listing", IsActive: false}

	svc, err := NewService(store, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	view, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.Name != "Organic Tomatoes" {
		t.Fatalf("view = %+v", view)
	}

	for _, id := range []int64{2, 99} {
		_, err := svc.Get(context.Background(), id)
		if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeNotFound {
			t.Fatalf("Get(%d) = %v, want not found", id, err)
		}
	}
}

func TestListRejectsGarbageCursor(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubStore(), testLogger())
	_, err := svc.List(context.Background(), ListFilter{Cursor: "not-base64!"})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("List = %v, want validation error", err)
	}
}

func TestListWrapsStoreFailure(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.listErr = fmt.Errorf("connection refused")
	svc, _ := NewService(store, testLogger())

	_, err := svc.List(context.Background(), ListFilter{})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeDependency {
		t.Fatalf("List = %v, want dependency error", err)
	}
}

func TestCreateRequiresSellerProfile(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubStore(), testLogger())
	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Name: "Sweet Corn", Price: 25, Unit: enums.ProductUnitKg,
	})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeForbidden {
		t.Fatalf("Create = %v, want forbidden", err)
	}
}

func TestCreateAttachesSellerAndDefaults(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	userID, seller := seedSeller(store)
	svc, _ := NewService(store, testLogger())

	view, err := svc.Create(context.Background(), userID, CreateInput{
		Name:         "Sweet Corn",
		Price:        25,
		AvailableQty: 300,
		Unit:         enums.ProductUnitKg,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Seller.ID != seller.ID || view.Seller.Name != seller.Name {
		t.Fatalf("seller block = %+v", view.Seller)
	}
	if view.Tags == nil || len(view.Tags) != 0 {
		t.Fatalf("tags must default to an empty list, got %v", view.Tags)
	}

	stored := store.products[view.ID]
	if !stored.IsActive {
		t.Fatal("new listings must start active")
	}
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	userID, _ := seedSeller(store)
	store.products[9] = models.Product{ID: 9, Name: "Basmati Rice", SellerID: 999, IsActive: true}
	svc, _ := NewService(store, testLogger())

	newPrice := int64(95)
	_, err := svc.Update(context.Background(), userID, 9, UpdateInput{Price: &newPrice})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeForbidden {
		t.Fatalf("Update = %v, want forbidden", err)
	}
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	userID, seller := seedSeller(store)
	store.products[9] = models.Product{
		ID: 9, Name: "Basmati Rice", Description: "Aged 12 months",
		PriceRupees: 90, AvailableQty: 500, Unit: enums.ProductUnitKg,
		SellerID: seller.ID, IsActive: true,
	}
	svc, _ := NewService(store, testLogger())

	newPrice := int64(95)
	view, err := svc.Update(context.Background(), userID, 9, UpdateInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if view.Price != 95 {
		t.Fatalf("price = %d, want 95", view.Price)
	}
	if view.Name != "Basmati Rice" || view.Description != "Aged 12 months" || view.AvailableQty != 500 {
		t.Fatalf("untouched fields changed: %+v", view)
	}
}

func TestDeactivateIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	userID, seller := seedSeller(store)
	store.products[9] = models.Product{ID: 9, Name: "Basmati Rice", SellerID: seller.ID, IsActive: true}
	svc, _ := NewService(store, testLogger())

	if err := svc.Deactivate(context.Background(), userID, 9); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if store.products[9].IsActive {
		t.Fatal("product still active")
	}
	if err := svc.Deactivate(context.Background(), userID, 9); err != nil {
		t.Fatalf("second Deactivate: %v", err)
	}
}
