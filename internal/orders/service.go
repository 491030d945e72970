package orders

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/internal/cart"
	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
	"github.com/greenmandi/greenmandi-backend/pkg/pagination"
)

// Store is the persistence surface the order service consumes.
type Store interface {
	CreateWithPayment(ctx context.Context, order *models.Order, payment *models.Payment) error
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	PaymentByOrderID(ctx context.Context, orderID uuid.UUID) (models.Payment, error)
	ListPaymentsByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Payment, error)
}

// Catalog resolves the live listing behind a basket line, used to flag
// lines whose price was bargained below the shelf price.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (models.Product, error)
}

type basketProvider interface {
	ForUser(userKey string) *cart.Store
}

// Service turns baskets into orders and serves order/payment history.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, in CheckoutInput) (OrderView, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (OrderView, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (Page, error)
	ListPayments(ctx context.Context, userID uuid.UUID, params pagination.Params) (PaymentPage, error)
}

type service struct {
	store   Store
	catalog Catalog
	carts   basketProvider
	logg    *logger.Logger
}

func NewService(store Store, catalog Catalog, carts basketProvider, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("orders: store is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("orders: catalog is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("orders: cart provider is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("orders: logger is required")
	}
	return &service{store: store, catalog: catalog, carts: carts, logg: logg}, nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, in CheckoutInput) (OrderView, error) {
	if !in.PaymentMethod.IsValid() {
		return OrderView{}, errors.New(errors.CodeValidation, "unknown payment method")
	}

	basket := s.carts.ForUser(userID.String())
	lines := basket.Items()
	if len(lines) == 0 {
		return OrderView{}, errors.New(errors.CodeValidation, "cart is empty")
	}

	order := models.Order{
		UserID: userID,
		Status: enums.OrderStatusPlaced,
		Items:  make([]models.OrderLineItem, 0, len(lines)),
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return OrderView{}, errors.New(errors.CodeValidation,
				fmt.Sprintf("line %d has no quantity", line.ID))
		}
		lineTotal := line.Price * int64(line.Quantity)
		order.Items = append(order.Items, models.OrderLineItem{
			ProductID:       line.ID,
			Name:            line.Name,
			ImageKey:        line.Image,
			UnitPriceRupees: line.Price,
			Quantity:        line.Quantity,
			LineTotalRupees: lineTotal,
			Negotiated:      s.isNegotiated(ctx, line),
		})
		order.SubtotalRupees += lineTotal
	}
	order.TotalRupees = order.SubtotalRupees

	payment := models.Payment{
		UserID:       userID,
		Method:       in.PaymentMethod,
		Status:       settlementStatus(in.PaymentMethod),
		AmountRupees: order.TotalRupees,
		Reference:    "PAY-" + uuid.NewString(),
	}
	if err := s.store.CreateWithPayment(ctx, &order, &payment); err != nil {
		return OrderView{}, errors.Wrap(errors.CodeDependency, err, "placing order")
	}

	// Only the snapshotted lines leave the basket, and only after the
	// order is durable. A line added while the order was persisting was
	// never priced into it and stays for the next checkout.
	for _, line := range lines {
		basket.Remove(line.ID)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"total":    order.TotalRupees,
	}), "order placed")
	return toOrderView(order, &payment), nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (OrderView, error) {
	row, err := s.store.GetByID(ctx, userID, orderID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return OrderView{}, errors.New(errors.CodeNotFound, "order not found")
		}
		return OrderView{}, errors.Wrap(errors.CodeDependency, err, "loading order")
	}

	var payment *models.Payment
	if p, err := s.store.PaymentByOrderID(ctx, row.ID); err == nil {
		payment = &p
	} else if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return OrderView{}, errors.Wrap(errors.CodeDependency, err, "loading payment")
	}
	return toOrderView(row, payment), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return Page{}, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.store.ListByUser(ctx, userID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return Page{}, errors.Wrap(errors.CodeDependency, err, "listing orders")
	}

	page := Page{Items: make([]OrderView, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for _, row := range rows {
		page.Items = append(page.Items, toOrderView(row, nil))
	}
	if hasMore {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID.String(),
		})
	}
	return page, nil
}

func (s *service) ListPayments(ctx context.Context, userID uuid.UUID, params pagination.Params) (PaymentPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return PaymentPage{}, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.store.ListPaymentsByUser(ctx, userID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return PaymentPage{}, errors.Wrap(errors.CodeDependency, err, "listing payments")
	}

	page := PaymentPage{Items: make([]PaymentView, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for _, row := range rows {
		page.Items = append(page.Items, toPaymentView(row))
	}
	if hasMore {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID.String(),
		})
	}
	return page, nil
}

// isNegotiated reports whether the basket line carries a price below the
// current shelf price. An unresolvable listing counts as not negotiated.
func (s *service) isNegotiated(ctx context.Context, line cart.Line) bool {
	product, err := s.catalog.GetByID(ctx, line.ID)
	if err != nil {
		return false
	}
	return line.Price < product.PriceRupees
}

// settlementStatus scripts the payment outcome: digital methods settle
// immediately, cash on delivery stays pending until handover.
func settlementStatus(method enums.PaymentMethod) enums.PaymentStatus {
	if method == enums.PaymentMethodCOD {
		return enums.PaymentStatusPending
	}
	return enums.PaymentStatusPaid
}
