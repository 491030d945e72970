package controllers

import (
	"net/http"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	"github.com/greenmandi/greenmandi-backend/api/validators"
	"github.com/greenmandi/greenmandi-backend/internal/auth"
	"github.com/greenmandi/greenmandi-backend/internal/cart"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

func Register(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in auth.RegisterInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Register(r.Context(), in)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusCreated, view)
	}
}

func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in auth.LoginInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Login(r.Context(), in)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, view)
	}
}

func Refresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in auth.RefreshInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		pair, err := svc.Refresh(r.Context(), in)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, pair)
	}
}

func Logout(svc auth.Service, carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		if err := svc.Logout(r.Context(), claims.ID); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		// The basket lives only as long as the session that owns it.
		carts.Evict(claims.UserID.String())
		responses.NoContent(w)
	}
}
