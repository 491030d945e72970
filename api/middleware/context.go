package middleware

import (
	"context"

	pkgauth "github.com/greenmandi/greenmandi-backend/pkg/auth"
)

type ctxKey string

const claimsKey ctxKey = "auth_claims"

// WithClaims attaches the verified token claims to the request context.
func WithClaims(ctx context.Context, claims *pkgauth.AccessTokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom returns the verified claims set by RequireAuth.
func ClaimsFrom(ctx context.Context) (*pkgauth.AccessTokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*pkgauth.AccessTokenClaims)
	return claims, ok
}
