package products

import (
	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
)

// SellerView is the vendor block rendered on listing and detail pages.
type SellerView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

// ProductView is the public shape of a listing.
type ProductView struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Price        int64             `json:"price"`
	AvailableQty int               `json:"available_qty"`
	Unit         enums.ProductUnit `json:"unit"`
	Image        *string           `json:"image"`
	Tags         []string          `json:"tags"`
	Seller       SellerView        `json:"seller"`
}

// ListFilter narrows the catalog listing.
type ListFilter struct {
	Query    string
	Tag      string
	SellerID int64
	Limit    int
	Cursor   string
}

// Page is one cursor-paginated slice of the catalog.
type Page struct {
	Items      []ProductView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// CreateInput is a seller's new listing.
type CreateInput struct {
	Name         string            `json:"name" validate:"required,min=2,max=120"`
	Description  string            `json:"description" validate:"max=2000"`
	Price        int64             `json:"price" validate:"required,min=1"`
	AvailableQty int               `json:"available_qty" validate:"min=0"`
	Unit         enums.ProductUnit `json:"unit" validate:"required"`
	ImageKey     *string           `json:"image_key"`
	Tags         []string          `json:"tags" validate:"max=10,dive,min=1,max=40"`
}

// UpdateInput patches an existing listing. Nil fields are left alone.
type UpdateInput struct {
	Name         *string            `json:"name" validate:"omitempty,min=2,max=120"`
	Description  *string            `json:"description" validate:"omitempty,max=2000"`
	Price        *int64             `json:"price" validate:"omitempty,min=1"`
	AvailableQty *int               `json:"available_qty" validate:"omitempty,min=0"`
	Unit         *enums.ProductUnit `json:"unit"`
	ImageKey     *string            `json:"image_key"`
	Tags         []string           `json:"tags" validate:"omitempty,max=10,dive,min=1,max=40"`
}

func toView(p models.Product) ProductView {
	view := ProductView{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.PriceRupees,
		AvailableQty: p.AvailableQty,
		Unit:         p.Unit,
		Image:        p.ImageKey,
		Tags:         p.Tags,
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}
	if p.Seller != nil {
		view.Seller = SellerView{
			ID:          p.Seller.ID,
			Name:        p.Seller.Name,
			Location:    p.Seller.Location,
			Rating:      p.Seller.Rating,
			ReviewCount: p.Seller.ReviewCount,
		}
	}
	return view
}
