package controllers

import (
	"net/http"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	"github.com/greenmandi/greenmandi-backend/api/validators"
	"github.com/greenmandi/greenmandi-backend/internal/products"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

func CreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		var in products.CreateInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusCreated, view)
	}
}

func UpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
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

		var in products.UpdateInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), claims.UserID, id, in)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, view)
	}
}

func DeactivateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Deactivate(r.Context(), claims.UserID, id); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.NoContent(w)
	}
}
