package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/studyhub/premium-channel-bot/internal/callbackdata"
	"github.com/studyhub/premium-channel-bot/internal/lifecycle"
	"github.com/studyhub/premium-channel-bot/internal/messages"
	"github.com/studyhub/premium-channel-bot/store"
	"github.com/studyhub/premium-channel-bot/types"
)

func (h *Handlers) HandleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}
	userID := query.From.ID

	data, err := callbackdata.Parse(query.Data)
	if err != nil {
		log.Printf("Invalid callback data from user %d: %v", userID, err)
		h.answerCallback(ctx, b, query.ID, messages.ErrorDefault())
		return
	}

	msg := query.Message.Message
	if msg == nil {
		h.answerCallback(ctx, b, query.ID, "")
		return
	}

	switch data.Kind {
	case callbackdata.KindMenu:
		h.answerCallback(ctx, b, query.ID, "")
		h.editText(ctx, b, msg, messages.MenuPrompt(), h.mainMenuKeyboard())

	case callbackdata.KindChannel:
		h.showChannel(ctx, b, query, msg, data.ChannelKey)

	case callbackdata.KindSubscribe, callbackdata.KindRenew:
		h.startPayment(ctx, b, query, msg, userID, data.ChannelKey)

	case callbackdata.KindPay:
		h.selectPayMethod(ctx, b, query, msg, data.PaymentID, data.Method)

	case callbackdata.KindProof:
		h.requestProof(ctx, b, query, msg, userID, data.PaymentID)

	case callbackdata.KindApprove:
		h.approvePayment(ctx, b, query, msg, userID, data.PaymentID)

	case callbackdata.KindReject:
		h.rejectPayment(ctx, b, query, msg, userID, data.PaymentID)
	}
}

func (h *Handlers) showChannel(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, msg *models.Message, channelKey string) {
	ch, ok := h.catalog.ByKey(channelKey)
	if !ok {
		h.answerCallback(ctx, b, query.ID, messages.ErrorUnknownChannel())
		return
	}
	h.answerCallback(ctx, b, query.ID, "")
	h.editText(ctx, b, msg, messages.ChannelInfo(ch), channelKeyboard(ch.Key))
}

func (h *Handlers) startPayment(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, msg *models.Message, userID int64, channelKey string) {
	p, err := h.payments.Create(userID, channelKey)
	if err != nil {
		if errors.Is(err, lifecycle.ErrUnknownChannel) {
			h.answerCallback(ctx, b, query.ID, messages.ErrorUnknownChannel())
			return
		}
		log.Printf("Failed to create payment for user %d, channel %q: %v", userID, channelKey, err)
		h.answerCallback(ctx, b, query.ID, messages.ErrorDefault())
		return
	}

	ch, _ := h.catalog.ByKey(channelKey)
	h.answerCallback(ctx, b, query.ID, "")
	h.editText(ctx, b, msg, messages.PaymentCreated(ch), payMethodsKeyboard(ch.Key, p.ID))
}

func (h *Handlers) selectPayMethod(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, msg *models.Message, paymentID string, method types.PaymentMethod) {
	if err := h.payments.SetMethod(paymentID, method); err != nil {
		if errors.Is(err, store.ErrPaymentNotPending) {
			h.answerCallback(ctx, b, query.ID, messages.ErrorPaymentAlreadyDecided())
			return
		}
		log.Printf("Failed to set method on payment %s: %v", paymentID, err)
		h.answerCallback(ctx, b, query.ID, messages.ErrorDefault())
		return
	}

	p, err := h.payments.Get(paymentID)
	if err != nil {
		log.Printf("Failed to load payment %s: %v", paymentID, err)
		h.answerCallback(ctx, b, query.ID, messages.ErrorDefault())
		return
	}
	h.answerCallback(ctx, b, query.ID, "")

	switch method {
	case types.MethodUPI:
		h.editText(ctx, b, msg, messages.UPIInstructions(p.Amount, h.cfg.UPIID), payMethodsKeyboard(p.ChannelKey, p.ID))
	case types.MethodQR:
		if h.cfg.QRCodeURL == "" {
			h.editText(ctx, b, msg, messages.UPIInstructions(p.Amount, h.cfg.UPIID), payMethodsKeyboard(p.ChannelKey, p.ID))
			return
		}
		_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      msg.Chat.ID,
			Photo:       &models.InputFileString{Data: h.cfg.QRCodeURL},
			Caption:     messages.QRInstructions(p.Amount),
			ParseMode:   messages.ParseModeHTML,
			ReplyMarkup: payMethodsKeyboard(p.ChannelKey, p.ID),
		})
		if err != nil {
			log.Printf("Failed to send QR code to chat %d: %v", msg.Chat.ID, err)
		}
	}
}

func (h *Handlers) requestProof(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, msg *models.Message, userID int64, paymentID string) {
	if err := h.state.SetAwaitingProof(userID, paymentID); err != nil {
		log.Printf("Failed to set awaiting-proof state for user %d: %v", userID, err)
		h.answerCallback(ctx, b, query.ID, messages.ErrorDefault())
		return
	}
	h.answerCallback(ctx, b, query.ID, "")
	h.editText(ctx, b, msg, messages.ProofPrompt(), nil)
}

func (h *Handlers) approvePayment(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, msg *models.Message, actorID int64, paymentID string) {
	res, err := h.payments.Approve(ctx, actorID, paymentID)
	if err != nil {
		h.reviewFailure(ctx, b, query, msg, paymentID, err)
		return
	}
	h.answerCallback(ctx, b, query.ID, "")

	text := messages.AdminApproved(res.Channel.Name)
	if res.GatewayErr != nil {
		text = messages.AdminManualActionNeeded(res.Channel.Name, res.Payment.UserID, res.GatewayErr)
	}
	h.editCaption(ctx, b, msg, text)
}

func (h *Handlers) rejectPayment(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, msg *models.Message, actorID int64, paymentID string) {
	_, err := h.payments.Reject(ctx, actorID, paymentID)
	if err != nil {
		h.reviewFailure(ctx, b, query, msg, paymentID, err)
		return
	}
	h.answerCallback(ctx, b, query.ID, "")
	h.editCaption(ctx, b, msg, messages.AdminRejected())
}

func (h *Handlers) reviewFailure(ctx context.Context, b *bot.Bot, query *models.CallbackQuery, msg *models.Message, paymentID string, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotAdmin):
		h.answerCallback(ctx, b, query.ID, messages.ErrorDefault())
	case errors.Is(err, store.ErrPaymentNotPending):
		h.answerCallback(ctx, b, query.ID, "")
		h.editCaption(ctx, b, msg, messages.ErrorPaymentAlreadyDecided())
	case errors.Is(err, lifecycle.ErrUnknownChannel):
		h.answerCallback(ctx, b, query.ID, "")
		h.editCaption(ctx, b, msg, messages.ErrorUnknownChannel())
	default:
		log.Printf("Failed to process review of payment %s: %v", paymentID, err)
		h.answerCallback(ctx, b, query.ID, messages.ErrorDefault())
	}
}

func (h *Handlers) editText(ctx context.Context, b *bot.Bot, msg *models.Message, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		log.Printf("Failed to edit message %d in chat %d: %v", msg.ID, msg.Chat.ID, err)
	}
}

// editCaption updates the admin's photo review message; leaving out the
// keyboard removes the approve/reject buttons.
func (h *Handlers) editCaption(ctx context.Context, b *bot.Bot, msg *models.Message, caption string) {
	_, err := b.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Caption:   caption,
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		log.Printf("Failed to edit caption of message %d in chat %d: %v", msg.ID, msg.Chat.ID, err)
	}
}
