package handlers

import (
	"github.com/go-telegram/bot/models"
	"github.com/studyhub/premium-channel-bot/internal/callbackdata"
	"github.com/studyhub/premium-channel-bot/types"
)

func (h *Handlers) mainMenuKeyboard() *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, h.catalog.Len())
	for _, key := range h.catalog.Keys() {
		ch, _ := h.catalog.ByKey(key)
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: ch.Name, CallbackData: callbackdata.Channel(key)},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func channelKeyboard(channelKey string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🔒 Subscribe", CallbackData: callbackdata.Subscribe(channelKey)},
			},
			{
				{Text: "🔙 Back to Channels", CallbackData: callbackdata.Menu()},
			},
		},
	}
}

func payMethodsKeyboard(channelKey, paymentID string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "💳 UPI ID", CallbackData: callbackdata.Pay(types.MethodUPI, paymentID)},
				{Text: "📱 UPI QR Code", CallbackData: callbackdata.Pay(types.MethodQR, paymentID)},
			},
			{
				{Text: "📸 Send Payment Screenshot", CallbackData: callbackdata.Proof(paymentID)},
			},
			{
				{Text: "🔙 Back", CallbackData: callbackdata.Channel(channelKey)},
			},
		},
	}
}

func adminReviewKeyboard(paymentID string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ Approve", CallbackData: callbackdata.Approve(paymentID)},
				{Text: "❌ Reject", CallbackData: callbackdata.Reject(paymentID)},
			},
		},
	}
}
