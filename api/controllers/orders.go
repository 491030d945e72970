package controllers

import (
	"net/http"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	"github.com/greenmandi/greenmandi-backend/api/validators"
	"github.com/greenmandi/greenmandi-backend/internal/orders"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		var in orders.CheckoutInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Checkout(r.Context(), claims.UserID, in)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusCreated, view)
	}
}

func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), claims.UserID, params)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, page)
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.UUIDParam(r, "orderID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), claims.UserID, orderID)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, view)
	}
}

func ListPayments(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListPayments(r.Context(), claims.UserID, params)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, page)
	}
}
