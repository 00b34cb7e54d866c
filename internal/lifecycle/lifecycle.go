// Package lifecycle drives payments from pending to approved/rejected and
// subscriptions from active to expired. Ledger writes always come first;
// gateway and notifier calls are side effects that may fail without
// corrupting the committed state.
package lifecycle

import (
	"context"
	"errors"
)

// MembershipGateway grants and revokes channel access. Add returns the
// single-use invite link for the user; Remove treats "not a member" as
// success.
type MembershipGateway interface {
	Add(ctx context.Context, userID, channelID int64) (inviteLink string, err error)
	Remove(ctx context.Context, userID, channelID int64) error
}

// Notifier delivers messages to a user or the admin. Failures are logged by
// the caller, never rolled back into the ledger.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
	SendRenewal(ctx context.Context, chatID int64, text string, channelKey string) error
}

// ReminderLog deduplicates renewal reminders per subscription per day.
type ReminderLog interface {
	MarkReminded(subscriptionID string, day string) (bool, error)
}

var (
	ErrUnknownChannel = errors.New("unknown channel key")
	ErrNotAdmin       = errors.New("caller is not the administrator")
)
