package negotiation

import (
	"fmt"

	"github.com/greenmandi/greenmandi-backend/pkg/enums"
)

// The seller side of a negotiation is fully scripted; these templates
// are the whole persona. Text is user-facing, so keep it in one place.

const msgQuantityHint = "Please enter a quantity of at least 10 to unlock a bulk price."

func scriptGreeting(sellerName, productName string) string {
	return fmt.Sprintf("Namaste! This is %s. Thanks for your interest in %s.", sellerName, productName)
}

func scriptAskQuantity(unit enums.ProductUnit) string {
	return fmt.Sprintf("How many %s do you need? Orders of %d %s or more get a better rate.", unit, MinQuantity, unit)
}

func scriptUserQuantity(quantity int, unit enums.ProductUnit) string {
	return fmt.Sprintf("I'd like %d %s. Can you do a better price?", quantity, unit)
}

func scriptOffer(quantity int, unit enums.ProductUnit, unitPrice int64) string {
	return fmt.Sprintf("For %d %s I can do ₹%d per %s. Shall we close the deal?", quantity, unit, unitPrice, unit)
}

func scriptUserAccept() string {
	return "Deal, I accept your offer."
}

func scriptAcceptConfirm(quantity int, unit enums.ProductUnit, productName string, unitPrice int64) string {
	return fmt.Sprintf("Done! %d %s of %s at ₹%d per %s. Your cart is updated.", quantity, unit, productName, unitPrice, unit)
}

func scriptUserReject() string {
	return "No thanks, I'll pass on that offer."
}

func scriptRejectFarewell(basePrice int64, unit enums.ProductUnit) string {
	return fmt.Sprintf("No worries. The regular price of ₹%d per %s still stands.", basePrice, unit)
}
