package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/studyhub/premium-channel-bot/internal/callbackdata"
	"github.com/studyhub/premium-channel-bot/internal/messages"
)

const callTimeout = 10 * time.Second

// TelegramMembership grants and revokes channel access through the Bot API.
// The API cannot force-add a member, so Add lifts any standing ban and mints
// a single-use invite link instead.
type TelegramMembership struct {
	bot *bot.Bot
}

func NewTelegramMembership(b *bot.Bot) *TelegramMembership {
	return &TelegramMembership{bot: b}
}

func (g *TelegramMembership) Add(ctx context.Context, userID, channelID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	// A previous expiry may have left the user banned; lifting it is safe
	// even if they never were.
	_, _ = g.bot.UnbanChatMember(ctx, &bot.UnbanChatMemberParams{
		ChatID:       channelID,
		UserID:       userID,
		OnlyIfBanned: true,
	})

	link, err := g.bot.CreateChatInviteLink(ctx, &bot.CreateChatInviteLinkParams{
		ChatID:      channelID,
		Name:        fmt.Sprintf("sub-%d", userID),
		MemberLimit: 1,
	})
	if err != nil {
		return "", fmt.Errorf("create invite link: %w", err)
	}
	return link.InviteLink, nil
}

func (g *TelegramMembership) Remove(ctx context.Context, userID, channelID int64) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := g.bot.BanChatMember(ctx, &bot.BanChatMemberParams{
		ChatID: channelID,
		UserID: userID,
	})
	if err != nil {
		if isNotParticipant(err) {
			return nil
		}
		return fmt.Errorf("kick user %d from channel %d: %w", userID, channelID, err)
	}

	// Unban immediately so the kick does not block a later renewal.
	_, err = g.bot.UnbanChatMember(ctx, &bot.UnbanChatMemberParams{
		ChatID:       channelID,
		UserID:       userID,
		OnlyIfBanned: true,
	})
	if err != nil {
		return fmt.Errorf("unban user %d in channel %d: %w", userID, channelID, err)
	}
	return nil
}

func isNotParticipant(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "USER_NOT_PARTICIPANT") ||
		strings.Contains(msg, "PARTICIPANT_ID_INVALID") ||
		strings.Contains(msg, "USER NOT FOUND")
}

// TelegramNotifier delivers lifecycle messages as HTML.
type TelegramNotifier struct {
	bot *bot.Bot
}

func NewTelegramNotifier(b *bot.Bot) *TelegramNotifier {
	return &TelegramNotifier{bot: b}
}

func (n *TelegramNotifier) Send(ctx context.Context, chatID int64, text string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	return err
}

// SendRenewal attaches a renew button that restarts the payment flow for the
// channel.
func (n *TelegramNotifier) SendRenewal(ctx context.Context, chatID int64, text string, channelKey string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{
					{Text: "🔄 Renew Subscription", CallbackData: callbackdata.Renew(channelKey)},
				},
			},
		},
	})
	return err
}
