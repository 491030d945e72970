package controllers

import (
	"net/http"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	"github.com/greenmandi/greenmandi-backend/api/validators"
	"github.com/greenmandi/greenmandi-backend/internal/cart"
	"github.com/greenmandi/greenmandi-backend/internal/products"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

type cartView struct {
	Items   []cart.Line `json:"items"`
	Version uint64      `json:"version"`
}

type addItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
}

type updateQuantityInput struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type updateTermsInput struct {
	Price    int64 `json:"price" validate:"required,min=1"`
	Quantity int   `json:"quantity" validate:"required,min=1"`
}

func snapshotCart(store *cart.Store) cartView {
	return cartView{Items: store.Items(), Version: store.Version()}
}

func GetCart(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, snapshotCart(carts.ForUser(claims.UserID.String())))
	}
}

// AddCartItem resolves the listing and merges it into the basket. An id
// already present only grows in quantity; its stored price and name stay
// as they were.
func AddCartItem(carts *cart.Registry, catalog products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		var in addItemInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.Get(r.Context(), in.ProductID)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		store := carts.ForUser(claims.UserID.String())
		store.Add(cart.Item{
			ID:    product.ID,
			Name:  product.Name,
			Image: product.Image,
			Price: product.Price,
		})
		responses.Data(w, http.StatusOK, snapshotCart(store))
	}
}

func RemoveCartItem(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		id, err := validators.Int64Param(r, "productID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		store := carts.ForUser(claims.UserID.String())
		store.Remove(id)
		responses.Data(w, http.StatusOK, snapshotCart(store))
	}
}

// UpdateCartQuantity sets an absolute quantity on an existing line. A
// line the basket does not hold is left untouched.
func UpdateCartQuantity(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		id, err := validators.Int64Param(r, "productID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		var in updateQuantityInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		store := carts.ForUser(claims.UserID.String())
		store.UpdateQuantity(id, in.Quantity)
		responses.Data(w, http.StatusOK, snapshotCart(store))
	}
}

// UpdateCartTerms rewrites price and quantity together, inserting a
// placeholder line when the product is not in the basket yet.
func UpdateCartTerms(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		id, err := validators.Int64Param(r, "productID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		var in updateTermsInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		store := carts.ForUser(claims.UserID.String())
		store.UpdatePriceAndQuantity(id, in.Price, in.Quantity)
		responses.Data(w, http.StatusOK, snapshotCart(store))
	}
}
