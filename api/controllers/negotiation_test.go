package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/greenmandi/greenmandi-backend/internal/cart"
	"github.com/greenmandi/greenmandi-backend/internal/negotiation"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
)

func newTestEngine(t *testing.T, carts *cart.Registry) *negotiation.Engine {
	t.Helper()
	engine, err := negotiation.NewEngine(negotiation.Options{
		Carts:     carts,
		Scheduler: negotiation.ImmediateScheduler{},
		Logger:    testControllerLogger(),
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) negotiation.Snapshot {
	t.Helper()
	var envelope struct {
		Data negotiation.Snapshot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v\n%s", err, rec.Body.String())
	}
	return envelope.Data
}

func TestNegotiationFlowOverHTTP(t *testing.T) {
	t.Parallel()

	carts := cart.NewRegistry()
	engine := newTestEngine(t, carts)
	catalog := testCatalog()
	logg := testControllerLogger()
	userID := uuid.New()

	// Open against the mango listing.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/negotiations", strings.NewReader(`{"product_id":7}`))
	rec := httptest.NewRecorder()
	OpenNegotiation(engine, catalog, logg)(rec, authed(req, userID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("open status = %d\n%s", rec.Code, rec.Body.String())
	}
	opened := decodeSnapshot(t, rec)
	if opened.State != enums.NegotiationStateAwaitingQuantity {
		t.Fatalf("state = %s", opened.State)
	}
	if opened.SellerName != "Deshmukh Orchards" || opened.BasePrice != 200 {
		t.Fatalf("product context missing: %+v", opened)
	}
	sessionID := opened.ID.String()

	// Preview while typing: shares the formula, leaves the transcript alone.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/negotiations/"+sessionID+"/preview", strings.NewReader(`{"quantity":"100"}`))
	req = withURLParam(authed(req, userID), "sessionID", sessionID)
	rec = httptest.NewRecorder()
	PreviewNegotiationOffer(engine, logg)(rec, req)
	preview := decodeSnapshot(t, rec)
	if preview.Preview == nil || preview.Preview.UnitPrice != 170 {
		t.Fatalf("preview = %+v", preview.Preview)
	}
	if len(preview.Messages) != len(opened.Messages) {
		t.Fatal("preview touched the transcript")
	}

	// Submit the quantity; the reply is immediate under the test scheduler.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/negotiations/"+sessionID+"/quantity", strings.NewReader(`{"quantity":"100"}`))
	req = withURLParam(authed(req, userID), "sessionID", sessionID)
	rec = httptest.NewRecorder()
	SubmitNegotiationQuantity(engine, logg)(rec, req)
	submitted := decodeSnapshot(t, rec)
	if submitted.State != enums.NegotiationStateOfferPending {
		t.Fatalf("state = %s", submitted.State)
	}
	if submitted.Offer == nil || submitted.Offer.UnitPrice != 170 || submitted.Offer.Quantity != 100 {
		t.Fatalf("offer = %+v", submitted.Offer)
	}

	// Accept: the bargained terms land in the basket.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/negotiations/"+sessionID+"/accept", nil)
	req = withURLParam(authed(req, userID), "sessionID", sessionID)
	rec = httptest.NewRecorder()
	AcceptNegotiationOffer(engine, logg)(rec, req)
	accepted := decodeSnapshot(t, rec)
	if accepted.State != enums.NegotiationStateAccepted {
		t.Fatalf("state = %s", accepted.State)
	}

	line, ok := carts.ForUser(userID.String()).Get(7)
	if !ok || line.Price != 170 || line.Quantity != 100 {
		t.Fatalf("basket line = %+v ok=%v", line, ok)
	}
}

func TestNegotiationInvalidQuantityGetsHintOverHTTP(t *testing.T) {
	t.Parallel()

	carts := cart.NewRegistry()
	engine := newTestEngine(t, carts)
	logg := testControllerLogger()
	userID := uuid.New()

	opened := engine.Open(testRequestContext(), userID.String(), negotiation.OpenInput{
		ProductID: 7, ProductName: "Alphonso Mangoes", Unit: enums.ProductUnitKg,
		BasePrice: 200, SellerName: "Deshmukh Orchards",
	})
	sessionID := opened.ID.String()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/negotiations/"+sessionID+"/quantity", strings.NewReader(`{"quantity":"three"}`))
	req = withURLParam(authed(req, userID), "sessionID", sessionID)
	rec := httptest.NewRecorder()
	SubmitNegotiationQuantity(engine, logg)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, hint rides the transcript, not an error", rec.Code)
	}
	snap := decodeSnapshot(t, rec)
	if snap.State != enums.NegotiationStateAwaitingQuantity {
		t.Fatalf("state = %s", snap.State)
	}
	last := snap.Messages[len(snap.Messages)-1]
	if !strings.Contains(last.Body, "at least 10") {
		t.Fatalf("hint missing: %q", last.Body)
	}
}

func TestNegotiationRejectionOverHTTP(t *testing.T) {
	t.Parallel()

	carts := cart.NewRegistry()
	engine := newTestEngine(t, carts)
	logg := testControllerLogger()
	userID := uuid.New()

	opened := engine.Open(testRequestContext(), userID.String(), negotiation.OpenInput{
		ProductID: 7, ProductName: "Alphonso Mangoes", Unit: enums.ProductUnitKg,
		BasePrice: 200, SellerName: "Deshmukh Orchards",
	})
	if _, err := engine.SubmitQuantity(testRequestContext(), opened.ID, userID.String(), "50"); err != nil {
		t.Fatalf("SubmitQuantity: %v", err)
	}
	sessionID := opened.ID.String()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/negotiations/"+sessionID+"/reject", nil)
	req = withURLParam(authed(req, userID), "sessionID", sessionID)
	rec := httptest.NewRecorder()
	RejectNegotiationOffer(engine, logg)(rec, req)

	snap := decodeSnapshot(t, rec)
	if snap.State != enums.NegotiationStateRejected {
		t.Fatalf("state = %s", snap.State)
	}
	if carts.ForUser(userID.String()).Len() != 0 {
		t.Fatal("rejection touched the basket")
	}

	// Terminal sessions refuse further decisions.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/negotiations/"+sessionID+"/accept", nil)
	req = withURLParam(authed(req, userID), "sessionID", sessionID)
	AcceptNegotiationOffer(engine, logg)(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("accept after reject status = %d, want 422", rec.Code)
	}
}

func TestNegotiationForeignSessionHiddenOverHTTP(t *testing.T) {
	t.Parallel()

	carts := cart.NewRegistry()
	engine := newTestEngine(t, carts)
	logg := testControllerLogger()

	opened := engine.Open(testRequestContext(), uuid.New().String(), negotiation.OpenInput{
		ProductID: 7, ProductName: "Alphonso Mangoes", Unit: enums.ProductUnitKg,
		BasePrice: 200, SellerName: "Deshmukh Orchards",
	})
	sessionID := opened.ID.String()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/negotiations/"+sessionID, nil)
	req = withURLParam(authed(req, uuid.New()), "sessionID", sessionID)
	rec := httptest.NewRecorder()
	GetNegotiation(engine, logg)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func testRequestContext() context.Context { return context.Background() }
