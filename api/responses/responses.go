package responses

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
	"github.com/greenmandi/greenmandi-backend/pkg/types"
)

// Data writes a success envelope.
func Data(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps a service error onto the wire format. Unknown error types
// are masked as internal failures; their detail goes to the log, not the
// client.
func Error(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := errors.As(err)
	if typed == nil {
		logg.Error(ctx, "unclassified error", err)
		writeJSON(w, http.StatusInternalServerError, types.ErrorEnvelope{
			Error: types.APIError{
				Code:    string(errors.CodeInternal),
				Message: errors.MetadataFor(errors.CodeInternal).PublicMessage,
			},
		})
		return
	}

	meta := errors.MetadataFor(typed.Code())
	if meta.HTTPStatus >= http.StatusInternalServerError {
		logg.Error(logg.WithField(ctx, "error_dump", errors.Dump(err)), typed.Message(), err)
	}

	apiErr := types.APIError{
		Code:    string(typed.Code()),
		Message: typed.Message(),
	}
	if apiErr.Message == "" {
		apiErr.Message = meta.PublicMessage
	}
	if meta.DetailsAllowed {
		apiErr.Details = typed.Details()
	}
	writeJSON(w, meta.HTTPStatus, types.ErrorEnvelope{Error: apiErr})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
