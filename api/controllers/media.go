package controllers

import (
	"net/http"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	"github.com/greenmandi/greenmandi-backend/api/validators"
	"github.com/greenmandi/greenmandi-backend/internal/media"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

func RegisterMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		var in media.RegisterInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Register(r.Context(), claims.UserID, in)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusCreated, view)
	}
}

func ListMyMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListMine(r.Context(), claims.UserID)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, views)
	}
}
