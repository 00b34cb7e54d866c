package types

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

type PaymentMethod string

const (
	MethodUnset PaymentMethod = ""
	MethodUPI   PaymentMethod = "upi"
	MethodQR    PaymentMethod = "qr"
)

// Terminal statuses have no outgoing transitions.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentApproved, PaymentRejected},
}

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionActive: {SubscriptionExpired},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) Terminal() bool {
	return len(paymentTransitions[s]) == 0
}

func (s SubscriptionStatus) CanTransitionTo(next SubscriptionStatus) bool {
	for _, allowed := range subscriptionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case MethodUPI:
		return MethodUPI, true
	case MethodQR:
		return MethodQR, true
	default:
		return MethodUnset, false
	}
}
