package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/premium-channel-bot/internal/catalog"
	"github.com/studyhub/premium-channel-bot/store"
	"github.com/studyhub/premium-channel-bot/types"
)

const adminID int64 = 111

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Channel{
		{Key: "study_data_1", Name: "Study Data 1", ChannelID: -1001, Price: 499, ValidityDays: 30},
		{Key: "study_data_2", Name: "Study Data 2", ChannelID: -1002, Price: 699, ValidityDays: 45},
	})
}

func newPaymentFixture() (*PaymentService, *memLedger, *fakeGateway, *fakeNotifier) {
	ledger := newMemLedger()
	gw := &fakeGateway{inviteLink: "https://t.me/+invite"}
	nt := &fakeNotifier{}
	svc := NewPaymentService(ledger, testCatalog(), gw, nt, adminID)
	return svc, ledger, gw, nt
}

func TestCreatePayment(t *testing.T) {
	svc, ledger, _, _ := newPaymentFixture()

	p, err := svc.Create(42, "study_data_1")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, int64(42), p.UserID)
	assert.Equal(t, "study_data_1", p.ChannelKey)
	assert.Equal(t, int64(499), p.Amount)
	assert.Equal(t, types.PaymentPending, p.Status)
	assert.Equal(t, types.MethodUnset, p.Method)

	stored, err := ledger.GetPayment(p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentPending, stored.Status)
}

func TestCreatePaymentUnknownChannel(t *testing.T) {
	svc, ledger, _, _ := newPaymentFixture()

	_, err := svc.Create(42, "no_such_channel")
	require.ErrorIs(t, err, ErrUnknownChannel)
	assert.Empty(t, ledger.payments)
}

func TestApprovePayment(t *testing.T) {
	svc, ledger, gw, nt := newPaymentFixture()
	fixed := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	p, err := svc.Create(42, "study_data_1")
	require.NoError(t, err)

	res, err := svc.Approve(context.Background(), adminID, p.ID)
	require.NoError(t, err)
	require.Nil(t, res.GatewayErr)
	assert.Equal(t, types.PaymentApproved, res.Payment.Status)
	assert.Equal(t, "https://t.me/+invite", res.InviteLink)

	require.NotNil(t, res.Subscription)
	assert.Equal(t, types.SubscriptionActive, res.Subscription.Status)
	assert.Equal(t, fixed.Add(30*24*time.Hour), res.Subscription.ExpiresAt)

	require.Len(t, gw.addCalls, 1)
	assert.Equal(t, gatewayCall{userID: 42, channelID: -1001}, gw.addCalls[0])

	require.Len(t, nt.sent, 1)
	assert.Equal(t, int64(42), nt.sent[0].chatID)
	assert.Contains(t, nt.sent[0].text, "https://t.me/+invite")

	stored, err := ledger.GetPayment(p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentApproved, stored.Status)
}

func TestApprovePaymentGatewayFailure(t *testing.T) {
	svc, ledger, gw, nt := newPaymentFixture()
	gw.addErr = errors.New("chat not found")

	p, err := svc.Create(42, "study_data_1")
	require.NoError(t, err)

	res, err := svc.Approve(context.Background(), adminID, p.ID)
	require.NoError(t, err)
	require.Error(t, res.GatewayErr)

	// The approval itself stands: status flipped and subscription created.
	stored, err := ledger.GetPayment(p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentApproved, stored.Status)
	require.NotNil(t, res.Subscription)
	assert.Equal(t, types.SubscriptionActive, res.Subscription.Status)

	// Admin hears about the manual step, the user hears nothing yet.
	require.Len(t, nt.sent, 1)
	assert.Equal(t, adminID, nt.sent[0].chatID)
}

func TestApprovePaymentSecondApprovalLoses(t *testing.T) {
	svc, _, gw, nt := newPaymentFixture()

	p, err := svc.Create(42, "study_data_1")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), adminID, p.ID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), adminID, p.ID)
	require.ErrorIs(t, err, store.ErrPaymentNotPending)

	// Only the winning approval caused side effects.
	assert.Len(t, gw.addCalls, 1)
	assert.Len(t, nt.sent, 1)
}

func TestApprovePaymentUnknownChannel(t *testing.T) {
	svc, ledger, gw, _ := newPaymentFixture()

	id, err := ledger.CreatePayment(types.Payment{
		UserID:     42,
		ChannelKey: "removed_channel",
		Status:     types.PaymentPending,
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), adminID, id)
	require.ErrorIs(t, err, ErrUnknownChannel)

	// Hard failure before any mutation.
	stored, err := ledger.GetPayment(id)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentPending, stored.Status)
	assert.Empty(t, gw.addCalls)
	assert.Empty(t, ledger.subscriptions)
}

func TestApprovePaymentNotAdmin(t *testing.T) {
	svc, ledger, gw, _ := newPaymentFixture()

	p, err := svc.Create(42, "study_data_1")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), 999, p.ID)
	require.ErrorIs(t, err, ErrNotAdmin)

	stored, err := ledger.GetPayment(p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentPending, stored.Status)
	assert.Empty(t, gw.addCalls)
}

func TestRejectPayment(t *testing.T) {
	svc, ledger, gw, nt := newPaymentFixture()

	p, err := svc.Create(42, "study_data_1")
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), adminID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentRejected, rejected.Status)

	stored, err := ledger.GetPayment(p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentRejected, stored.Status)
	assert.Empty(t, ledger.subscriptions)
	assert.Empty(t, gw.addCalls)

	require.Len(t, nt.sent, 1)
	assert.Equal(t, int64(42), nt.sent[0].chatID)
}

func TestRejectAfterApproveFails(t *testing.T) {
	svc, ledger, _, _ := newPaymentFixture()

	p, err := svc.Create(42, "study_data_1")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), adminID, p.ID)
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), adminID, p.ID)
	require.ErrorIs(t, err, store.ErrPaymentNotPending)

	stored, err := ledger.GetPayment(p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentApproved, stored.Status)
}

func TestRejectPaymentNotAdmin(t *testing.T) {
	svc, _, _, nt := newPaymentFixture()

	p, err := svc.Create(42, "study_data_1")
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), 999, p.ID)
	require.ErrorIs(t, err, ErrNotAdmin)
	assert.Empty(t, nt.sent)
}

func TestSetMethodAfterDecisionFails(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	p, err := svc.Create(42, "study_data_1")
	require.NoError(t, err)
	require.NoError(t, svc.SetMethod(p.ID, types.MethodUPI))

	_, err = svc.Approve(context.Background(), adminID, p.ID)
	require.NoError(t, err)

	err = svc.SetMethod(p.ID, types.MethodQR)
	require.ErrorIs(t, err, store.ErrPaymentNotPending)
	err = svc.AttachProof(p.ID, "file-123")
	require.ErrorIs(t, err, store.ErrPaymentNotPending)
}
