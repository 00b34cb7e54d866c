package types

import "time"

type User struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Payment struct {
	ID          string
	UserID      int64
	ChannelKey  string
	Amount      int64
	Method      PaymentMethod
	ProofFileID string
	Status      PaymentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Subscription struct {
	ID         string
	UserID     int64
	ChannelKey string
	Status     SubscriptionStatus
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// LedgerStore owns all persisted records. Terminal payment transitions are
// conditional updates that fail with ErrPaymentNotPending once the payment
// has been decided, and ApprovePayment commits the status change together
// with the subscription insert in one transaction.
type LedgerStore interface {
	UpsertUser(user User) error
	GetUser(userID int64) (*User, error)

	CreatePayment(p Payment) (string, error)
	GetPayment(paymentID string) (*Payment, error)
	SetPaymentMethod(paymentID string, method PaymentMethod) error
	AttachProof(paymentID string, proofFileID string) error
	ApprovePayment(paymentID string, expiresAt time.Time) (*Subscription, error)
	RejectPayment(paymentID string) error

	ListActiveSubscriptions(userID int64) ([]*Subscription, error)
	ListExpiredSubscriptions(now time.Time) ([]*Subscription, error)
	ListSubscriptionsExpiring(from, to time.Time) ([]*Subscription, error)
	MarkSubscriptionExpired(subscriptionID string) (bool, error)
}
