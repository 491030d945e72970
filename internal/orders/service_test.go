package orders

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/internal/cart"
	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
	"github.com/greenmandi/greenmandi-backend/pkg/pagination"
)

type stubStore struct {
	orders    []models.Order
	payments  []models.Payment
	createErr error
	onCreate  func()
}

func (s *stubStore) CreateWithPayment(_ context.Context, order *models.Order, payment *models.Payment) error {
	if s.onCreate != nil {
		s.onCreate()
	}
	if s.createErr != nil {
		return s.createErr
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	payment.ID = uuid.New()
	payment.OrderID = order.ID
	s.orders = append(s.orders, *order)
	s.payments = append(s.payments, *payment)
	return nil
}

func (s *stubStore) GetByID(_ context.Context, userID, orderID uuid.UUID) (models.Order, error) {
	for _, o := range s.orders {
		if o.ID == orderID && o.UserID == userID {
			return o, nil
		}
	}
	return models.Order{}, gorm.ErrRecordNotFound
}

func (s *stubStore) ListByUser(_ context.Context, userID uuid.UUID, limit int, _ *pagination.Cursor) ([]models.Order, error) {
	var rows []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			rows = append(rows, o)
		}
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func (s *stubStore) PaymentByOrderID(_ context.Context, orderID uuid.UUID) (models.Payment, error) {
	for _, p := range s.payments {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return models.Payment{}, gorm.ErrRecordNotFound
}

func (s *stubStore) ListPaymentsByUser(_ context.Context, userID uuid.UUID, limit int, _ *pagination.Cursor) ([]models.Payment, error) {
	var rows []models.Payment
	for _, p := range s.payments {
		if p.UserID == userID {
			rows = append(rows, p)
		}
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

type stubCatalog struct {
	products map[int64]models.Product
}

func (s *stubCatalog) GetByID(_ context.Context, id int64) (models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, gorm.ErrRecordNotFound
	}
	return p, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T) (Service, *stubStore, *stubCatalog, *cart.Registry) {
	t.Helper()
	store := &stubStore{}
	catalog := &stubCatalog{products: map[int64]models.Product{
		1: {ID: 1, Name: "Organic Tomatoes", PriceRupees: 35},
		7: {ID: 7, Name: "Alphonso Mangoes", PriceRupees: 200},
	}}
	carts := cart.NewRegistry()
	svc, err := NewService(store, catalog, carts, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store, catalog, carts
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t)
	_, err := svc.Checkout(context.Background(), uuid.New(), CheckoutInput{PaymentMethod: enums.PaymentMethodUPI})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("Checkout = %v, want validation error", err)
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	t.Parallel()

	svc, _, _, carts := newTestService(t)
	userID := uuid.New()
	carts.ForUser(userID.String()).Add(cart.Item{ID: 1, Name: "Organic Tomatoes", Price: 35})

	_, err := svc.Checkout(context.Background(), userID, CheckoutInput{PaymentMethod: "barter"})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("Checkout = %v, want validation error", err)
	}
}

func TestCheckoutFreezesCartAndEmptiesIt(t *testing.T) {
	t.Parallel()

	svc, store, _, carts := newTestService(t)
	userID := uuid.New()
	basket := carts.ForUser(userID.String())
	basket.Add(cart.Item{ID: 1, Name: "Organic Tomatoes", Price: 35})
	basket.UpdateQuantity(1, 3)
	// A negotiated line: bulk mangoes at 170 against a shelf price of 200.
	basket.UpdatePriceAndQuantity(7, 170, 100)

	view, err := svc.Checkout(context.Background(), userID, CheckoutInput{PaymentMethod: enums.PaymentMethodUPI})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if view.Subtotal != 3*35+100*170 {
		t.Fatalf("subtotal = %d, want %d", view.Subtotal, 3*35+100*170)
	}
	if view.Total != view.Subtotal {
		t.Fatalf("total = %d, want subtotal", view.Total)
	}
	if view.Status != enums.OrderStatusPlaced {
		t.Fatalf("status = %s, want placed", view.Status)
	}
	if len(view.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(view.Items))
	}

	var tomato, mango *ItemView
	for i := range view.Items {
		switch view.Items[i].ProductID {
		case 1:
			tomato = &view.Items[i]
		case 7:
			mango = &view.Items[i]
		}
	}
	if tomato == nil || tomato.Negotiated {
		t.Fatalf("shelf-price line flagged negotiated: %+v", tomato)
	}
	if mango == nil || !mango.Negotiated {
		t.Fatalf("bargained line not flagged: %+v", mango)
	}

	if view.Payment == nil || view.Payment.Status != enums.PaymentStatusPaid {
		t.Fatalf("payment = %+v, want settled upi payment", view.Payment)
	}
	if view.Payment.Amount != view.Total {
		t.Fatalf("payment amount = %d, want %d", view.Payment.Amount, view.Total)
	}

	if basket.Len() != 0 {
		t.Fatal("basket must drain after checkout")
	}
	if len(store.orders) != 1 || len(store.payments) != 1 {
		t.Fatalf("persisted orders=%d payments=%d", len(store.orders), len(store.payments))
	}
}

func TestCheckoutKeepsLinesAddedWhileOrderPersists(t *testing.T) {
	t.Parallel()

	svc, store, _, carts := newTestService(t)
	userID := uuid.New()
	basket := carts.ForUser(userID.String())
	basket.Add(cart.Item{ID: 1, Name: "Organic Tomatoes", Price: 35})
	// Another device drops a line in while the order row is being written.
	store.onCreate = func() {
		basket.Add(cart.Item{ID: 9, Name: "Fresh Paneer", Price: 120})
	}

	view, err := svc.Checkout(context.Background(), userID, CheckoutInput{PaymentMethod: enums.PaymentMethodUPI})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].ProductID != 1 {
		t.Fatalf("order items = %+v, want only the snapshotted line", view.Items)
	}

	if basket.Len() != 1 {
		t.Fatalf("basket holds %d lines, want the mid-flight addition", basket.Len())
	}
	if _, ok := basket.Get(9); !ok {
		t.Fatal("mid-flight line must survive checkout")
	}
}

func TestCheckoutCashOnDeliveryStaysPending(t *testing.T) {
	t.Parallel()

	svc, _, _, carts := newTestService(t)
	userID := uuid.New()
	carts.ForUser(userID.String()).Add(cart.Item{ID: 1, Name: "Organic Tomatoes", Price: 35})

	view, err := svc.Checkout(context.Background(), userID, CheckoutInput{PaymentMethod: enums.PaymentMethodCOD})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if view.Payment.Status != enums.PaymentStatusPending {
		t.Fatalf("cod payment status = %s, want pending", view.Payment.Status)
	}
}

func TestCheckoutKeepsBasketOnPersistFailure(t *testing.T) {
	t.Parallel()

	svc, store, _, carts := newTestService(t)
	store.createErr = gorm.ErrInvalidDB
	userID := uuid.New()
	basket := carts.ForUser(userID.String())
	basket.Add(cart.Item{ID: 1, Name: "Organic Tomatoes", Price: 35})

	_, err := svc.Checkout(context.Background(), userID, CheckoutInput{PaymentMethod: enums.PaymentMethodUPI})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeDependency {
		t.Fatalf("Checkout = %v, want dependency error", err)
	}
	if basket.Len() != 1 {
		t.Fatal("basket must survive a failed checkout")
	}
}

func TestGetScopesToOwner(t *testing.T) {
	t.Parallel()

	svc, _, _, carts := newTestService(t)
	userID := uuid.New()
	carts.ForUser(userID.String()).Add(cart.Item{ID: 1, Name: "Organic Tomatoes", Price: 35})
	placed, err := svc.Checkout(context.Background(), userID, CheckoutInput{PaymentMethod: enums.PaymentMethodUPI})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	got, err := svc.Get(context.Background(), userID, placed.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Payment == nil || got.Payment.Reference == "" {
		t.Fatalf("payment missing from order view: %+v", got.Payment)
	}

	_, err = svc.Get(context.Background(), uuid.New(), placed.ID)
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("foreign Get = %v, want not found", err)
	}
}

func TestListAndPaymentsReturnOwnRowsOnly(t *testing.T) {
	t.Parallel()

	svc, _, _, carts := newTestService(t)
	userID := uuid.New()
	carts.ForUser(userID.String()).Add(cart.Item{ID: 1, Name: "Organic Tomatoes", Price: 35})
	if _, err := svc.Checkout(context.Background(), userID, CheckoutInput{PaymentMethod: enums.PaymentMethodCard}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	page, err := svc.List(context.Background(), userID, pagination.Params{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("orders = %d, want 1", len(page.Items))
	}

	payments, err := svc.ListPayments(context.Background(), userID, pagination.Params{})
	if err != nil {
		t.Fatalf("ListPayments: %v", err)
	}
	if len(payments.Items) != 1 || payments.Items[0].Method != enums.PaymentMethodCard {
		t.Fatalf("payments = %+v", payments.Items)
	}

	other, err := svc.List(context.Background(), uuid.New(), pagination.Params{})
	if err != nil {
		t.Fatalf("List(other): %v", err)
	}
	if len(other.Items) != 0 {
		t.Fatal("foreign user sees orders")
	}
}
