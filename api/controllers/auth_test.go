package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/greenmandi/greenmandi-backend/internal/auth"
	"github.com/greenmandi/greenmandi-backend/internal/cart"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
)

// stubAuthService covers the controller surface without Redis or a DB.
type stubAuthService struct {
	logoutErr error
	loggedOut []string
}

func (s *stubAuthService) Register(_ context.Context, _ auth.RegisterInput) (auth.AuthView, error) {
	return auth.AuthView{}, errors.New(errors.CodeInternal, "not implemented")
}

func (s *stubAuthService) Login(_ context.Context, _ auth.LoginInput) (auth.AuthView, error) {
	return auth.AuthView{}, errors.New(errors.CodeInternal, "not implemented")
}

func (s *stubAuthService) Refresh(_ context.Context, _ auth.RefreshInput) (auth.TokenPair, error) {
	return auth.TokenPair{}, errors.New(errors.CodeInternal, "not implemented")
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	if s.logoutErr != nil {
		return s.logoutErr
	}
	s.loggedOut = append(s.loggedOut, accessID)
	return nil
}

func TestLogoutEvictsBasket(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{}
	carts := cart.NewRegistry()
	userID := uuid.New()
	otherID := uuid.New()
	carts.ForUser(userID.String()).Add(cart.Item{ID: 1, Name: "Organic Tomatoes", Price: 35})
	carts.ForUser(otherID.String()).Add(cart.Item{ID: 7, Name: "Alphonso Mangoes", Price: 200})

	handler := Logout(svc, carts, testControllerLogger())
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), userID)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(svc.loggedOut) != 1 {
		t.Fatalf("revocations = %d, want 1", len(svc.loggedOut))
	}
	if _, ok := carts.Peek(userID.String()); ok {
		t.Fatal("basket must be evicted on logout")
	}
	if _, ok := carts.Peek(otherID.String()); !ok {
		t.Fatal("other customers' baskets must survive")
	}
}

func TestLogoutKeepsBasketWhenRevocationFails(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{logoutErr: errors.New(errors.CodeDependency, "redis down")}
	carts := cart.NewRegistry()
	userID := uuid.New()
	carts.ForUser(userID.String()).Add(cart.Item{ID: 1, Name: "Organic Tomatoes", Price: 35})

	handler := Logout(svc, carts, testControllerLogger())
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), userID)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if _, ok := carts.Peek(userID.String()); !ok {
		t.Fatal("basket must survive a failed logout")
	}
}
