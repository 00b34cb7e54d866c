package lifecycle

import (
	"context"
	"log"
	"time"

	"github.com/studyhub/premium-channel-bot/internal/catalog"
	"github.com/studyhub/premium-channel-bot/internal/messages"
	"github.com/studyhub/premium-channel-bot/types"
)

// SubscriptionService runs the time-based transitions. Both sweeps are safe
// to re-run: the expiry sweep only touches records still active, and the
// reminder sweep is deduplicated through the ReminderLog.
type SubscriptionService struct {
	ledger       SubscriptionLedger
	catalog      *catalog.Catalog
	gateway      MembershipGateway
	notifier     Notifier
	reminders    ReminderLog
	reminderDays int
}

// SubscriptionLedger is the slice of the ledger the sweeps need.
type SubscriptionLedger interface {
	ListExpiredSubscriptions(now time.Time) ([]*types.Subscription, error)
	ListSubscriptionsExpiring(from, to time.Time) ([]*types.Subscription, error)
	MarkSubscriptionExpired(subscriptionID string) (bool, error)
}

func NewSubscriptionService(ledger SubscriptionLedger, cat *catalog.Catalog, gateway MembershipGateway, notifier Notifier, reminders ReminderLog, reminderDays int) *SubscriptionService {
	if reminderDays <= 0 {
		reminderDays = 3
	}
	return &SubscriptionService{
		ledger:       ledger,
		catalog:      cat,
		gateway:      gateway,
		notifier:     notifier,
		reminders:    reminders,
		reminderDays: reminderDays,
	}
}

// ExpirySweep revokes access for every subscription whose expiry lies in the
// past. Removal failure leaves the record active so the next sweep retries;
// once the removal succeeds the status flips to expired and the user is told.
func (s *SubscriptionService) ExpirySweep(ctx context.Context, now time.Time) error {
	subs, err := s.ledger.ListExpiredSubscriptions(now)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		ch, ok := s.catalog.ByKey(sub.ChannelKey)
		if !ok {
			log.Printf("Expiry sweep: subscription %s references unknown channel %q, skipping", sub.ID, sub.ChannelKey)
			continue
		}

		if err := s.gateway.Remove(ctx, sub.UserID, ch.ChannelID); err != nil {
			log.Printf("Expiry sweep: failed to remove user %d from channel %d: %v", sub.UserID, ch.ChannelID, err)
			continue
		}

		changed, err := s.ledger.MarkSubscriptionExpired(sub.ID)
		if err != nil {
			log.Printf("Expiry sweep: failed to mark subscription %s expired: %v", sub.ID, err)
			continue
		}
		if !changed {
			continue
		}

		if err := s.notifier.Send(ctx, sub.UserID, messages.SubscriptionExpired(ch.Name)); err != nil {
			log.Printf("Expiry sweep: failed to notify user %d about expiry: %v", sub.UserID, err)
		}
	}
	return nil
}

// ReminderSweep notifies everyone whose subscription expires exactly
// reminderDays from now (a single calendar-day window, so a user hears about
// it once, not daily). The per-day marker keeps a same-day re-run silent.
func (s *SubscriptionService) ReminderSweep(ctx context.Context, now time.Time) error {
	from, to := reminderWindow(now, s.reminderDays)
	subs, err := s.ledger.ListSubscriptionsExpiring(from, to)
	if err != nil {
		return err
	}

	day := from.Format("2006-01-02")
	for _, sub := range subs {
		ch, ok := s.catalog.ByKey(sub.ChannelKey)
		if !ok {
			log.Printf("Reminder sweep: subscription %s references unknown channel %q, skipping", sub.ID, sub.ChannelKey)
			continue
		}

		first, err := s.reminders.MarkReminded(sub.ID, day)
		if err != nil {
			log.Printf("Reminder sweep: failed to mark subscription %s reminded: %v", sub.ID, err)
			continue
		}
		if !first {
			continue
		}

		text := messages.RenewalReminder(ch.Name, sub.ExpiresAt, s.reminderDays)
		if err := s.notifier.SendRenewal(ctx, sub.UserID, text, ch.Key); err != nil {
			log.Printf("Reminder sweep: failed to send reminder to user %d: %v", sub.UserID, err)
		}
	}
	return nil
}

// reminderWindow is the calendar day, in UTC, that lies days ahead of now.
func reminderWindow(now time.Time, days int) (time.Time, time.Time) {
	target := now.UTC().AddDate(0, 0, days)
	y, m, d := target.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	to := from.Add(24*time.Hour - time.Nanosecond)
	return from, to
}
