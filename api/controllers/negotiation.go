package controllers

import (
	"net/http"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	"github.com/greenmandi/greenmandi-backend/api/validators"
	"github.com/greenmandi/greenmandi-backend/internal/negotiation"
	"github.com/greenmandi/greenmandi-backend/internal/products"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

type openNegotiationInput struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
}

// quantityInput carries the raw chat-box text; the engine owns parsing
// so typed garbage gets the scripted hint, not a schema error.
type quantityInput struct {
	Quantity string `json:"quantity" validate:"required,max=20"`
}

func OpenNegotiation(engine *negotiation.Engine, catalog products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		var in openNegotiationInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.Get(r.Context(), in.ProductID)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		snap := engine.Open(r.Context(), claims.UserID.String(), negotiation.OpenInput{
			ProductID:   product.ID,
			ProductName: product.Name,
			Unit:        product.Unit,
			BasePrice:   product.Price,
			SellerName:  product.Seller.Name,
		})
		responses.Data(w, http.StatusCreated, snap)
	}
}

func ListNegotiations(engine *negotiation.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, engine.ListForUser(claims.UserID.String()))
	}
}

func GetNegotiation(engine *negotiation.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		sessionID, err := validators.UUIDParam(r, "sessionID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		snap, err := engine.Get(sessionID, claims.UserID.String())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, snap)
	}
}

func SubmitNegotiationQuantity(engine *negotiation.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		sessionID, err := validators.UUIDParam(r, "sessionID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		var in quantityInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		snap, err := engine.SubmitQuantity(r.Context(), sessionID, claims.UserID.String(), in.Quantity)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, snap)
	}
}

// PreviewNegotiationOffer recomputes the offer for a quantity still being
// typed. Same guard and formula as submission, no transcript side effects.
func PreviewNegotiationOffer(engine *negotiation.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		sessionID, err := validators.UUIDParam(r, "sessionID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		var in quantityInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		snap, err := engine.PreviewOffer(sessionID, claims.UserID.String(), in.Quantity)
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, snap)
	}
}

func AcceptNegotiationOffer(engine *negotiation.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		sessionID, err := validators.UUIDParam(r, "sessionID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		snap, err := engine.Accept(r.Context(), sessionID, claims.UserID.String())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, snap)
	}
}

func RejectNegotiationOffer(engine *negotiation.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		sessionID, err := validators.UUIDParam(r, "sessionID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		snap, err := engine.Reject(r.Context(), sessionID, claims.UserID.String())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.Data(w, http.StatusOK, snap)
	}
}

func CloseNegotiation(engine *negotiation.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentClaims(r.Context())
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		sessionID, err := validators.UUIDParam(r, "sessionID")
		if err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}

		if err := engine.Close(r.Context(), sessionID, claims.UserID.String()); err != nil {
			responses.Error(r.Context(), logg, w, err)
			return
		}
		responses.NoContent(w)
	}
}
