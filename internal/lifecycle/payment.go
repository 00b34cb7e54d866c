package lifecycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/studyhub/premium-channel-bot/internal/catalog"
	"github.com/studyhub/premium-channel-bot/internal/messages"
	"github.com/studyhub/premium-channel-bot/types"
)

// PaymentService owns the pending -> approved/rejected machine. Approval is
// persistence-first: the claim transaction commits before any gateway or
// notifier call runs.
type PaymentService struct {
	ledger      types.LedgerStore
	catalog     *catalog.Catalog
	gateway     MembershipGateway
	notifier    Notifier
	adminChatID int64
	now         func() time.Time
}

func NewPaymentService(ledger types.LedgerStore, cat *catalog.Catalog, gateway MembershipGateway, notifier Notifier, adminChatID int64) *PaymentService {
	return &PaymentService{
		ledger:      ledger,
		catalog:     cat,
		gateway:     gateway,
		notifier:    notifier,
		adminChatID: adminChatID,
		now:         time.Now,
	}
}

// Create opens a pending payment for the channel, priced from the catalog.
// Renewals go through here too; a renewal is a fresh payment, never a
// mutation of the old subscription.
func (s *PaymentService) Create(userID int64, channelKey string) (*types.Payment, error) {
	ch, ok := s.catalog.ByKey(channelKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channelKey)
	}

	p := types.Payment{
		UserID:     userID,
		ChannelKey: ch.Key,
		Amount:     ch.Price,
		Method:     types.MethodUnset,
		Status:     types.PaymentPending,
	}
	id, err := s.ledger.CreatePayment(p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (s *PaymentService) SetMethod(paymentID string, method types.PaymentMethod) error {
	return s.ledger.SetPaymentMethod(paymentID, method)
}

func (s *PaymentService) AttachProof(paymentID string, proofFileID string) error {
	return s.ledger.AttachProof(paymentID, proofFileID)
}

func (s *PaymentService) Get(paymentID string) (*types.Payment, error) {
	return s.ledger.GetPayment(paymentID)
}

// ApprovalResult reports what the approval did so the caller can update the
// admin's review message.
type ApprovalResult struct {
	Payment      *types.Payment
	Subscription *types.Subscription
	Channel      catalog.Channel
	InviteLink   string
	// GatewayErr is set when access could not be granted; the payment is
	// approved regardless and the admin has been asked to act manually.
	GatewayErr error
}

// Approve moves the payment to approved and creates the subscription with
// expiry = now + channel validity. The ledger claim guarantees at most one
// concurrent approval wins; the loser gets store.ErrPaymentNotPending and
// causes no side effects. An unknown channel key is a hard error before any
// mutation.
func (s *PaymentService) Approve(ctx context.Context, actorID int64, paymentID string) (*ApprovalResult, error) {
	if actorID != s.adminChatID {
		return nil, ErrNotAdmin
	}

	p, err := s.ledger.GetPayment(paymentID)
	if err != nil {
		return nil, err
	}
	ch, ok := s.catalog.ByKey(p.ChannelKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, p.ChannelKey)
	}

	expiresAt := s.now().UTC().Add(time.Duration(ch.ValidityDays) * 24 * time.Hour)
	sub, err := s.ledger.ApprovePayment(paymentID, expiresAt)
	if err != nil {
		return nil, err
	}
	p.Status = types.PaymentApproved

	res := &ApprovalResult{Payment: p, Subscription: sub, Channel: ch}

	link, gerr := s.gateway.Add(ctx, p.UserID, ch.ChannelID)
	if gerr != nil {
		res.GatewayErr = gerr
		log.Printf("Approve payment %s: failed to add user %d to channel %d: %v", paymentID, p.UserID, ch.ChannelID, gerr)
		if err := s.notifier.Send(ctx, s.adminChatID, messages.AdminManualActionNeeded(ch.Name, p.UserID, gerr)); err != nil {
			log.Printf("Approve payment %s: failed to notify admin: %v", paymentID, err)
		}
		return res, nil
	}
	res.InviteLink = link

	if err := s.notifier.Send(ctx, p.UserID, messages.PaymentApproved(ch.Name, sub.ExpiresAt, link)); err != nil {
		log.Printf("Approve payment %s: failed to notify user %d: %v", paymentID, p.UserID, err)
	}
	return res, nil
}

// Reject moves the payment to rejected and tells the user. No subscription
// is created.
func (s *PaymentService) Reject(ctx context.Context, actorID int64, paymentID string) (*types.Payment, error) {
	if actorID != s.adminChatID {
		return nil, ErrNotAdmin
	}

	p, err := s.ledger.GetPayment(paymentID)
	if err != nil {
		return nil, err
	}
	if _, ok := s.catalog.ByKey(p.ChannelKey); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, p.ChannelKey)
	}

	if err := s.ledger.RejectPayment(paymentID); err != nil {
		return nil, err
	}
	p.Status = types.PaymentRejected

	if err := s.notifier.Send(ctx, p.UserID, messages.PaymentRejected()); err != nil {
		log.Printf("Reject payment %s: failed to notify user %d: %v", paymentID, p.UserID, err)
	}
	return p, nil
}
