package products

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
	"github.com/greenmandi/greenmandi-backend/pkg/pagination"
)

// Store is the persistence surface the catalog service consumes.
type Store interface {
	List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	SellerByUserID(ctx context.Context, userID uuid.UUID) (models.Seller, error)
}

// Service exposes the catalog to customers and sellers.
type Service interface {
	List(ctx context.Context, filter ListFilter) (Page, error)
	Get(ctx context.Context, id int64) (ProductView, error)
	Create(ctx context.Context, sellerUserID uuid.UUID, in CreateInput) (ProductView, error)
	Update(ctx context.Context, sellerUserID uuid.UUID, id int64, in UpdateInput) (ProductView, error)
	Deactivate(ctx context.Context, sellerUserID uuid.UUID, id int64) error
}

type service struct {
	store Store
	logg  *logger.Logger
}

func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("products: store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("products: logger is required")
	}
	return &service{store: store, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (Page, error) {
	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return Page{}, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	rows, err := s.store.List(ctx, filter, pagination.LimitWithBuffer(filter.Limit), cursor)
	if err != nil {
		return Page{}, errors.Wrap(errors.CodeDependency, err, "listing products")
	}

	page := Page{Items: make([]ProductView, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for _, row := range rows {
		page.Items = append(page.Items, toView(row))
	}
	if hasMore {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        fmt.Sprintf("%d", last.ID),
		})
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id int64) (ProductView, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return ProductView{}, errors.New(errors.CodeNotFound, "product not found")
		}
		return ProductView{}, errors.Wrap(errors.CodeDependency, err, "loading product")
	}
	if !row.IsActive {
		return ProductView{}, errors.New(errors.CodeNotFound, "product not found")
	}
	return toView(row), nil
}

func (s *service) Create(ctx context.Context, sellerUserID uuid.UUID, in CreateInput) (ProductView, error) {
	seller, err := s.resolveSeller(ctx, sellerUserID)
	if err != nil {
		return ProductView{}, err
	}

	row := models.Product{
		Name:         in.Name,
		Description:  in.Description,
		PriceRupees:  in.Price,
		AvailableQty: in.AvailableQty,
		Unit:         in.Unit,
		ImageKey:     in.ImageKey,
		Tags:         in.Tags,
		IsActive:     true,
		SellerID:     seller.ID,
	}
	if err := s.store.Create(ctx, &row); err != nil {
		return ProductView{}, errors.Wrap(errors.CodeDependency, err, "creating product")
	}
	row.Seller = &seller

	s.logg.Info(s.logg.WithField(ctx, "product_id", row.ID), "product created")
	return toView(row), nil
}

func (s *service) Update(ctx context.Context, sellerUserID uuid.UUID, id int64, in UpdateInput) (ProductView, error) {
	row, seller, err := s.ownedProduct(ctx, sellerUserID, id)
	if err != nil {
		return ProductView{}, err
	}

	if in.Name != nil {
		row.Name = *in.Name
	}
	if in.Description != nil {
		row.Description = *in.Description
	}
	if in.Price != nil {
		row.PriceRupees = *in.Price
	}
	if in.AvailableQty != nil {
		row.AvailableQty = *in.AvailableQty
	}
	if in.Unit != nil {
		row.Unit = *in.Unit
	}
	if in.ImageKey != nil {
		row.ImageKey = in.ImageKey
	}
	if in.Tags != nil {
		row.Tags = in.Tags
	}

	if err := s.store.Update(ctx, &row); err != nil {
		return ProductView{}, errors.Wrap(errors.CodeDependency, err, "updating product")
	}
	row.Seller = &seller
	return toView(row), nil
}

func (s *service) Deactivate(ctx context.Context, sellerUserID uuid.UUID, id int64) error {
	row, _, err := s.ownedProduct(ctx, sellerUserID, id)
	if err != nil {
		return err
	}
	if !row.IsActive {
		return nil
	}

	row.IsActive = false
	if err := s.store.Update(ctx, &row); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deactivating product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", row.ID), "product deactivated")
	return nil
}

func (s *service) resolveSeller(ctx context.Context, userID uuid.UUID) (models.Seller, error) {
	seller, err := s.store.SellerByUserID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return models.Seller{}, errors.New(errors.CodeForbidden, "no seller profile for this account")
		}
		return models.Seller{}, errors.Wrap(errors.CodeDependency, err, "resolving seller")
	}
	return seller, nil
}

// ownedProduct loads a product and checks the acting account owns it.
func (s *service) ownedProduct(ctx context.Context, sellerUserID uuid.UUID, id int64) (models.Product, models.Seller, error) {
	seller, err := s.resolveSeller(ctx, sellerUserID)
	if err != nil {
		return models.Product{}, models.Seller{}, err
	}

	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, models.Seller{}, errors.New(errors.CodeNotFound, "product not found")
		}
		return models.Product{}, models.Seller{}, errors.Wrap(errors.CodeDependency, err, "loading product")
	}
	if row.SellerID != seller.ID {
		return models.Product{}, models.Seller{}, errors.New(errors.CodeForbidden, "product belongs to another seller")
	}
	return row, seller, nil
}
