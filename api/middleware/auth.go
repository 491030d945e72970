package middleware

import (
	"net/http"
	"strings"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	pkgauth "github.com/greenmandi/greenmandi-backend/pkg/auth"
	"github.com/greenmandi/greenmandi-backend/pkg/auth/session"
	"github.com/greenmandi/greenmandi-backend/pkg/config"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

// RequireAuth verifies the bearer token and that its session has not
// been revoked, then attaches the claims and user id to the context.
func RequireAuth(jwtCfg config.JWTConfig, sessions session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				responses.Error(r.Context(), logg, w,
					errors.New(errors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(jwtCfg, token)
			if err != nil {
				responses.Error(r.Context(), logg, w,
					errors.New(errors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			live, err := sessions.HasSession(r.Context(), claims.ID)
			if err != nil {
				responses.Error(r.Context(), logg, w,
					errors.Wrap(errors.CodeDependency, err, "checking session"))
				return
			}
			if !live {
				responses.Error(r.Context(), logg, w,
					errors.New(errors.CodeUnauthorized, "session revoked"))
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logg.WithUserID(ctx, claims.UserID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a subtree to one role; admins pass everywhere.
func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				responses.Error(r.Context(), logg, w,
					errors.New(errors.CodeUnauthorized, "authentication required"))
				return
			}
			if claims.Role != role && claims.Role != enums.UserRoleAdmin {
				responses.Error(r.Context(), logg, w,
					errors.New(errors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
