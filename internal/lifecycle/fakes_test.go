package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/studyhub/premium-channel-bot/store"
	"github.com/studyhub/premium-channel-bot/types"
)

// memLedger is an in-memory stand-in for the postgres ledger with the same
// conditional-update semantics.
type memLedger struct {
	users         map[int64]types.User
	payments      map[string]*types.Payment
	subscriptions map[string]*types.Subscription
	nextID        int
}

func newMemLedger() *memLedger {
	return &memLedger{
		users:         make(map[int64]types.User),
		payments:      make(map[string]*types.Payment),
		subscriptions: make(map[string]*types.Subscription),
	}
}

func (m *memLedger) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memLedger) UpsertUser(user types.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *memLedger) GetUser(userID int64) (*types.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %d not found", userID)
	}
	return &u, nil
}

func (m *memLedger) CreatePayment(p types.Payment) (string, error) {
	p.ID = m.genID("pay")
	p.CreatedAt = time.Now().UTC()
	m.payments[p.ID] = &p
	return p.ID, nil
}

func (m *memLedger) GetPayment(paymentID string) (*types.Payment, error) {
	p, ok := m.payments[paymentID]
	if !ok {
		return nil, store.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memLedger) SetPaymentMethod(paymentID string, method types.PaymentMethod) error {
	return m.updatePending(paymentID, func(p *types.Payment) { p.Method = method })
}

func (m *memLedger) AttachProof(paymentID string, proofFileID string) error {
	return m.updatePending(paymentID, func(p *types.Payment) { p.ProofFileID = proofFileID })
}

func (m *memLedger) updatePending(paymentID string, apply func(*types.Payment)) error {
	p, ok := m.payments[paymentID]
	if !ok {
		return store.ErrPaymentNotFound
	}
	if p.Status != types.PaymentPending {
		return store.ErrPaymentNotPending
	}
	apply(p)
	return nil
}

func (m *memLedger) ApprovePayment(paymentID string, expiresAt time.Time) (*types.Subscription, error) {
	p, ok := m.payments[paymentID]
	if !ok {
		return nil, store.ErrPaymentNotFound
	}
	if p.Status != types.PaymentPending {
		return nil, store.ErrPaymentNotPending
	}
	p.Status = types.PaymentApproved

	sub := &types.Subscription{
		ID:         m.genID("sub"),
		UserID:     p.UserID,
		ChannelKey: p.ChannelKey,
		Status:     types.SubscriptionActive,
		CreatedAt:  time.Now().UTC(),
		ExpiresAt:  expiresAt,
	}
	m.subscriptions[sub.ID] = sub
	cp := *sub
	return &cp, nil
}

func (m *memLedger) RejectPayment(paymentID string) error {
	return m.updatePending(paymentID, func(p *types.Payment) { p.Status = types.PaymentRejected })
}

func (m *memLedger) ListActiveSubscriptions(userID int64) ([]*types.Subscription, error) {
	var out []*types.Subscription
	for _, sub := range m.subscriptions {
		if sub.UserID == userID && sub.Status == types.SubscriptionActive {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memLedger) ListExpiredSubscriptions(now time.Time) ([]*types.Subscription, error) {
	var out []*types.Subscription
	for _, sub := range m.subscriptions {
		if sub.Status == types.SubscriptionActive && sub.ExpiresAt.Before(now) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memLedger) ListSubscriptionsExpiring(from, to time.Time) ([]*types.Subscription, error) {
	var out []*types.Subscription
	for _, sub := range m.subscriptions {
		if sub.Status != types.SubscriptionActive {
			continue
		}
		if sub.ExpiresAt.Before(from) || sub.ExpiresAt.After(to) {
			continue
		}
		cp := *sub
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memLedger) MarkSubscriptionExpired(subscriptionID string) (bool, error) {
	sub, ok := m.subscriptions[subscriptionID]
	if !ok || sub.Status != types.SubscriptionActive {
		return false, nil
	}
	sub.Status = types.SubscriptionExpired
	return true, nil
}

func (m *memLedger) addSubscription(sub types.Subscription) string {
	sub.ID = m.genID("sub")
	m.subscriptions[sub.ID] = &sub
	return sub.ID
}

type gatewayCall struct {
	userID    int64
	channelID int64
}

type fakeGateway struct {
	addCalls    []gatewayCall
	removeCalls []gatewayCall
	addErr      error
	removeErr   error
	inviteLink  string
}

func (g *fakeGateway) Add(ctx context.Context, userID, channelID int64) (string, error) {
	g.addCalls = append(g.addCalls, gatewayCall{userID: userID, channelID: channelID})
	if g.addErr != nil {
		return "", g.addErr
	}
	return g.inviteLink, nil
}

func (g *fakeGateway) Remove(ctx context.Context, userID, channelID int64) error {
	g.removeCalls = append(g.removeCalls, gatewayCall{userID: userID, channelID: channelID})
	return g.removeErr
}

type sentMessage struct {
	chatID     int64
	text       string
	channelKey string
}

type fakeNotifier struct {
	sent     []sentMessage
	renewals []sentMessage
	sendErr  error
}

func (n *fakeNotifier) Send(ctx context.Context, chatID int64, text string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (n *fakeNotifier) SendRenewal(ctx context.Context, chatID int64, text string, channelKey string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.renewals = append(n.renewals, sentMessage{chatID: chatID, text: text, channelKey: channelKey})
	return nil
}

type fakeReminderLog struct {
	marked map[string]bool
	err    error
}

func newFakeReminderLog() *fakeReminderLog {
	return &fakeReminderLog{marked: make(map[string]bool)}
}

func (l *fakeReminderLog) MarkReminded(subscriptionID string, day string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	key := subscriptionID + ":" + day
	if l.marked[key] {
		return false, nil
	}
	l.marked[key] = true
	return true, nil
}
