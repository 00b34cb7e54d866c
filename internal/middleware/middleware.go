package middleware

import (
	"context"
	"log"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/studyhub/premium-channel-bot/types"
)

type UserTracker struct {
	ledger types.LedgerStore
}

func NewUserTracker(ledger types.LedgerStore) *UserTracker {
	return &UserTracker{ledger: ledger}
}

// TrackUser upserts the sender on every update so the ledger always carries
// fresh display metadata. Failures never block handling.
func (m *UserTracker) TrackUser(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		var (
			from   *models.User
			chatID int64
		)

		switch {
		case update.Message != nil && update.Message.From != nil:
			from = update.Message.From
			chatID = update.Message.Chat.ID
		case update.CallbackQuery != nil:
			from = &update.CallbackQuery.From
			if update.CallbackQuery.Message.Message != nil {
				chatID = update.CallbackQuery.Message.Message.Chat.ID
			}
		}

		if from != nil {
			if chatID == 0 {
				chatID = from.ID
			}
			err := m.ledger.UpsertUser(types.User{
				UserID:    from.ID,
				ChatID:    chatID,
				Username:  from.Username,
				FirstName: from.FirstName,
				LastName:  from.LastName,
			})
			if err != nil {
				log.Printf("Failed to upsert user %d: %v", from.ID, err)
			}
		}

		next(ctx, b, update)
	}
}
