package enums

import "fmt"

// NegotiationState is the per-session bargaining state machine position.
// Accepted and rejected are absorbing.
type NegotiationState string

const (
	NegotiationStateGreeting         NegotiationState = "greeting"
	NegotiationStateAwaitingQuantity NegotiationState = "awaiting_quantity"
	NegotiationStateOfferPending     NegotiationState = "offer_pending"
	NegotiationStateAccepted         NegotiationState = "accepted"
	NegotiationStateRejected         NegotiationState = "rejected"
)

var validNegotiationStates = []NegotiationState{
	NegotiationStateGreeting,
	NegotiationStateAwaitingQuantity,
	NegotiationStateOfferPending,
	NegotiationStateAccepted,
	NegotiationStateRejected,
}

func (s NegotiationState) String() string {
	return string(s)
}

func (s NegotiationState) IsValid() bool {
	for _, candidate := range validNegotiationStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state absorbs further transitions.
func (s NegotiationState) IsTerminal() bool {
	return s == NegotiationStateAccepted || s == NegotiationStateRejected
}

// ParseNegotiationState converts raw input into a NegotiationState.
func ParseNegotiationState(value string) (NegotiationState, error) {
	for _, candidate := range validNegotiationStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid negotiation state %q", value)
}

// MessageSender tags a transcript entry.
type MessageSender string

const (
	MessageSenderUser   MessageSender = "user"
	MessageSenderSeller MessageSender = "seller"
)

func (m MessageSender) String() string {
	return string(m)
}

func (m MessageSender) IsValid() bool {
	return m == MessageSenderUser || m == MessageSenderSeller
}

// OfferStatus resolves a bulk-price offer.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

func (o OfferStatus) String() string {
	return string(o)
}

func (o OfferStatus) IsValid() bool {
	return o == OfferStatusPending || o == OfferStatusAccepted || o == OfferStatusRejected
}
