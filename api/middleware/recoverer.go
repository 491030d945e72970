package middleware

import (
	"fmt"
	"net/http"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

// Recoverer converts panics into a logged 500 with the standard error
// envelope.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					responses.Error(r.Context(), logg, w,
						errors.Wrap(errors.CodeInternal, err, "request handler panicked"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
