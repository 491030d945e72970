package controllers

import (
	"context"

	"github.com/greenmandi/greenmandi-backend/api/middleware"
	pkgauth "github.com/greenmandi/greenmandi-backend/pkg/auth"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
)

// currentClaims pulls the verified token claims placed by RequireAuth.
func currentClaims(ctx context.Context) (*pkgauth.AccessTokenClaims, error) {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return nil, errors.New(errors.CodeUnauthorized, "authentication required")
	}
	return claims, nil
}
