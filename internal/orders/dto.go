package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
)

// CheckoutInput converts the basket into an order.
type CheckoutInput struct {
	PaymentMethod enums.PaymentMethod `json:"payment_method" validate:"required"`
}

// ItemView is one frozen order line.
type ItemView struct {
	ProductID  int64   `json:"product_id"`
	Name       string  `json:"name"`
	Image      *string `json:"image"`
	UnitPrice  int64   `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	LineTotal  int64   `json:"line_total"`
	Negotiated bool    `json:"negotiated"`
}

// OrderView is the public shape of a placed order.
type OrderView struct {
	ID        uuid.UUID         `json:"id"`
	Status    enums.OrderStatus `json:"status"`
	Subtotal  int64             `json:"subtotal"`
	Total     int64             `json:"total"`
	Items     []ItemView        `json:"items"`
	Payment   *PaymentView      `json:"payment,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// PaymentView is one entry in the payment history.
type PaymentView struct {
	ID        uuid.UUID           `json:"id"`
	OrderID   uuid.UUID           `json:"order_id"`
	Method    enums.PaymentMethod `json:"method"`
	Status    enums.PaymentStatus `json:"status"`
	Amount    int64               `json:"amount"`
	Reference string              `json:"reference"`
	CreatedAt time.Time           `json:"created_at"`
}

// Page is one cursor-paginated slice of order history.
type Page struct {
	Items      []OrderView `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// PaymentPage is one cursor-paginated slice of payment history.
type PaymentPage struct {
	Items      []PaymentView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func toOrderView(o models.Order, payment *models.Payment) OrderView {
	view := OrderView{
		ID:        o.ID,
		Status:    o.Status,
		Subtotal:  o.SubtotalRupees,
		Total:     o.TotalRupees,
		Items:     make([]ItemView, 0, len(o.Items)),
		CreatedAt: o.CreatedAt,
	}
	for _, item := range o.Items {
		view.Items = append(view.Items, ItemView{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Image:      item.ImageKey,
			UnitPrice:  item.UnitPriceRupees,
			Quantity:   item.Quantity,
			LineTotal:  item.LineTotalRupees,
			Negotiated: item.Negotiated,
		})
	}
	if payment != nil {
		pv := toPaymentView(*payment)
		view.Payment = &pv
	}
	return view
}

func toPaymentView(p models.Payment) PaymentView {
	return PaymentView{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Method:    p.Method,
		Status:    p.Status,
		Amount:    p.AmountRupees,
		Reference: p.Reference,
		CreatedAt: p.CreatedAt,
	}
}
