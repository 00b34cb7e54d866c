package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/studyhub/premium-channel-bot/internal/messages"
	"github.com/studyhub/premium-channel-bot/store"
)

// HandleProofPhoto attaches an incoming screenshot to the payment the user
// is submitting proof for and forwards it to the admin for review.
func (h *Handlers) HandleProofPhoto(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	userID := msg.From.ID
	chatID := msg.Chat.ID

	paymentID, err := h.state.GetAwaitingProof(userID)
	if err != nil {
		log.Printf("Failed to read awaiting-proof state for user %d: %v", userID, err)
		h.sendText(ctx, b, chatID, messages.ErrorDefault())
		return
	}
	if paymentID == "" {
		h.sendText(ctx, b, chatID, messages.NoActivePayment())
		return
	}

	best := msg.Photo[0]
	for i := 1; i < len(msg.Photo); i++ {
		if msg.Photo[i].FileSize > best.FileSize {
			best = msg.Photo[i]
		}
	}

	if err := h.payments.AttachProof(paymentID, best.FileID); err != nil {
		if errors.Is(err, store.ErrPaymentNotPending) {
			h.sendText(ctx, b, chatID, messages.ErrorPaymentAlreadyDecided())
		} else {
			log.Printf("Failed to attach proof to payment %s: %v", paymentID, err)
			h.sendText(ctx, b, chatID, messages.ErrorDefault())
		}
		_ = h.state.ClearAwaitingProof(userID)
		return
	}

	p, err := h.payments.Get(paymentID)
	if err != nil {
		log.Printf("Failed to load payment %s after proof: %v", paymentID, err)
		h.sendText(ctx, b, chatID, messages.ErrorDefault())
		return
	}

	channelName := "Unknown Channel"
	if ch, ok := h.catalog.ByKey(p.ChannelKey); ok {
		channelName = ch.Name
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      h.cfg.AdminID,
		Photo:       &models.InputFileString{Data: best.FileID},
		Caption:     messages.AdminReviewCaption(p, channelName),
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: adminReviewKeyboard(paymentID),
	})
	if err != nil {
		log.Printf("Failed to forward proof of payment %s to admin: %v", paymentID, err)
		h.sendText(ctx, b, chatID, messages.ErrorDefault())
		return
	}

	if err := h.state.ClearAwaitingProof(userID); err != nil {
		log.Printf("Failed to clear awaiting-proof state for user %d: %v", userID, err)
	}
	h.sendText(ctx, b, chatID, messages.ProofReceived())
}
