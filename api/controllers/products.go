package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	"github.com/greenmandi/greenmandi-backend/api/validators"
	"github.com/greenmandi/greenmandi-backend/internal/products"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

func ListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		filter := products.ListFilter{
			Query:  strings.TrimSpace(r.URL.Query().Get("q")),
			Tag:    strings.TrimSpace(r.URL.Query().Get("tag")),
			Limit:  params.Limit,
			Cursor: params.Cursor,
		}
		if raw := r.URL.Query().Get("seller_id"); raw != "" {
			sellerID, convErr := strconv.ParseInt(raw, 10, 64)
			if convErr == nil && sellerID > 0 {
				filter.SellerID = sellerID
			}
		}

		page, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, page)
	}
}

func GetProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.Int64Param(r, "productID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, view)
	}
}
