package negotiation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/greenmandi/greenmandi-backend/pkg/errors"
)

// MinQuantity is the smallest order size a seller will bargain over.
const MinQuantity = 10

var (
	one             = decimal.NewFromInt(1)
	discountDivisor = decimal.NewFromInt(100)
	discountCap     = decimal.RequireFromString("0.15")
)

// ParseQuantity validates free-text quantity input from the chat box.
// Non-numeric input is treated exactly like a quantity below the floor:
// both come back as the same validation error carrying the seller's hint.
func ParseQuantity(raw string) (int, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || quantity < MinQuantity {
		return 0, errors.New(errors.CodeValidation, msgQuantityHint)
	}
	return quantity, nil
}

// OfferPrice computes the negotiated unit price for a bulk order. The
// discount is quantity/100 capped at 15%, so the price floor is reached
// at 1500 units and never drops further. The result rounds to the
// nearest whole rupee.
func OfferPrice(basePrice int64, quantity int) int64 {
	discount := decimal.NewFromInt(int64(quantity)).Div(discountDivisor)
	if discount.GreaterThan(discountCap) {
		discount = discountCap
	}
	offer := decimal.NewFromInt(basePrice).Mul(one.Sub(discount))
	return offer.Round(0).IntPart()
}
