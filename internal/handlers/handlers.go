package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/studyhub/premium-channel-bot/internal/catalog"
	"github.com/studyhub/premium-channel-bot/internal/config"
	"github.com/studyhub/premium-channel-bot/internal/lifecycle"
	"github.com/studyhub/premium-channel-bot/internal/messages"
	"github.com/studyhub/premium-channel-bot/store"
	"github.com/studyhub/premium-channel-bot/types"
)

type Handlers struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	ledger   types.LedgerStore
	payments *lifecycle.PaymentService
	state    *store.RedisStateStore
}

func NewHandlers(cfg *config.Config, cat *catalog.Catalog, ledger types.LedgerStore, payments *lifecycle.PaymentService, state *store.RedisStateStore) *Handlers {
	return &Handlers{
		cfg:      cfg,
		catalog:  cat,
		ledger:   ledger,
		payments: payments,
		state:    state,
	}
}

func (h *Handlers) MainHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil {
		return
	}

	if update.CallbackQuery != nil {
		h.HandleCallback(ctx, b, update)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if strings.HasPrefix(strings.TrimSpace(update.Message.Text), "/") {
		h.HandleCommand(ctx, b, update)
		return
	}

	if len(update.Message.Photo) > 0 {
		h.HandleProofPhoto(ctx, b, update)
		return
	}

	// Plain text while a proof submission is pending gets a nudge to send
	// the screenshot instead.
	if paymentID, err := h.state.GetAwaitingProof(update.Message.From.ID); err == nil && paymentID != "" {
		h.sendText(ctx, b, update.Message.Chat.ID, messages.ProofNotPhoto())
		return
	}

	h.sendText(ctx, b, update.Message.Chat.ID, messages.ErrorUnknownCommand())
}

func (h *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		log.Printf("Failed to answer callback %s: %v", callbackID, err)
	}
}
