package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/studyhub/premium-channel-bot/internal/messages"
	"github.com/studyhub/premium-channel-bot/types"
)

func (h *Handlers) HandleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	fields := strings.Fields(update.Message.Text)
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	if strings.Contains(cmd, "@") {
		cmd = strings.SplitN(cmd, "@", 2)[0]
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	switch cmd {
	case "/start":
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        messages.Welcome(update.Message.From.FirstName),
			ParseMode:   messages.ParseModeHTML,
			ReplyMarkup: h.mainMenuKeyboard(),
		})
		if err != nil {
			log.Printf("Failed to send welcome to chat %d: %v", chatID, err)
		}
	case "/help":
		h.sendText(ctx, b, chatID, messages.Help())
	case "/subscriptions":
		h.sendSubscriptions(ctx, b, chatID, userID)
	case "/cancel":
		if err := h.state.ClearAwaitingProof(userID); err != nil {
			log.Printf("Failed to clear awaiting-proof state for user %d: %v", userID, err)
		}
		h.sendText(ctx, b, chatID, messages.Cancelled())
	default:
		h.sendText(ctx, b, chatID, messages.ErrorUnknownCommand())
	}
}

func (h *Handlers) sendSubscriptions(ctx context.Context, b *bot.Bot, chatID, userID int64) {
	subs, err := h.ledger.ListActiveSubscriptions(userID)
	if err != nil {
		log.Printf("Failed to list subscriptions for user %d: %v", userID, err)
		h.sendText(ctx, b, chatID, messages.ErrorDefault())
		return
	}

	items := make([]messages.SubscriptionItem, 0, len(subs))
	for _, sub := range subs {
		if sub.Status != types.SubscriptionActive {
			continue
		}
		name := "Unknown Channel"
		if ch, ok := h.catalog.ByKey(sub.ChannelKey); ok {
			name = ch.Name
		}
		items = append(items, messages.SubscriptionItem{ChannelName: name, ExpiresAt: sub.ExpiresAt})
	}

	if len(items) == 0 {
		h.sendText(ctx, b, chatID, messages.NoSubscriptions())
		return
	}
	h.sendText(ctx, b, chatID, messages.SubscriptionList(items))
}
