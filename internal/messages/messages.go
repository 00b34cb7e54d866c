package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/studyhub/premium-channel-bot/internal/catalog"
	"github.com/studyhub/premium-channel-bot/types"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

func formatDate(t time.Time) string {
	return t.UTC().Format("02 Jan 2006")
}

func Welcome(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("👋 Welcome, %s!\n\n"+
		"🌟 <b>Premium Study Materials Bot</b> 🌟\n\n"+
		"Access exclusive premium study materials to accelerate your learning journey.\n\n"+
		"Select a channel below to view details and subscribe:", Escape(name))
}

func Help() string {
	return "📚 <b>Premium Study Materials - Help</b>\n\n" +
		"Here's how to use this bot:\n\n" +
		"1️⃣ Choose a premium channel from the main menu\n" +
		"2️⃣ Subscribe by selecting the payment option\n" +
		"3️⃣ Complete the payment and submit a screenshot\n" +
		"4️⃣ Wait for admin approval to gain access\n\n" +
		"📝 <b>Commands:</b>\n" +
		"/start - Start the bot and see the main menu\n" +
		"/help - Show this help message\n" +
		"/subscriptions - View your active subscriptions\n" +
		"/cancel - Cancel the current operation\n\n" +
		"For assistance, contact our support team."
}

func MenuPrompt() string {
	return "Select a premium channel to view details and subscribe:"
}

func ChannelInfo(ch catalog.Channel) string {
	return fmt.Sprintf("📚 <b>%s</b>\n\n"+
		"📝 <b>Description:</b> %s\n\n"+
		"💰 <b>Price:</b> ₹%d\n"+
		"⏱ <b>Validity:</b> %d days",
		Escape(ch.Name), Escape(ch.Description), ch.Price, ch.ValidityDays)
}

func PaymentCreated(ch catalog.Channel) string {
	return fmt.Sprintf("💳 <b>Payment for %s</b>\n\n"+
		"Amount: ₹%d\n"+
		"Validity: %d days\n\n"+
		"Please select your payment method:", Escape(ch.Name), ch.Price, ch.ValidityDays)
}

func UPIInstructions(amount int64, upiID string) string {
	return fmt.Sprintf("💳 <b>Pay via UPI ID</b>\n\n"+
		"Amount: ₹%d\n\n"+
		"UPI ID: <code>%s</code>\n\n"+
		"After completing the payment, please send a screenshot for verification.", amount, Escape(upiID))
}

func QRInstructions(amount int64) string {
	return fmt.Sprintf("💳 <b>Pay via UPI QR Code</b>\n\n"+
		"Amount: ₹%d\n\n"+
		"Scan the QR code above to pay.\n\n"+
		"After completing the payment, please send a screenshot for verification.", amount)
}

func ProofPrompt() string {
	return "📸 <b>Send Payment Screenshot</b>\n\n" +
		"Please send a screenshot of your payment as proof.\n\n" +
		"Make sure the screenshot clearly shows:\n" +
		"• Transaction ID\n" +
		"• Payment amount\n" +
		"• Date and time\n\n" +
		"Send the image now. Send /cancel to cancel."
}

func ProofReceived() string {
	return "✅ <b>Payment Screenshot Received</b>\n\n" +
		"Your payment is being verified. This may take some time.\n" +
		"You'll receive a notification once your payment is approved."
}

func ProofNotPhoto() string {
	return "Please send an image as the payment screenshot."
}

func NoActivePayment() string {
	return "❌ Error: No active payment process found.\n\nPlease use /start to begin a new subscription."
}

func Cancelled() string {
	return "❌ Operation cancelled.\n\nUse /start to return to the main menu."
}

func AdminReviewCaption(p *types.Payment, channelName string) string {
	method := string(p.Method)
	if method == "" {
		method = "not selected"
	}
	return fmt.Sprintf("💰 <b>New Payment Verification</b>\n\n"+
		"User ID: <code>%d</code>\n"+
		"Channel: %s\n"+
		"Amount: ₹%d\n"+
		"Payment Method: %s\n\n"+
		"Please verify and approve/reject this payment.",
		p.UserID, Escape(channelName), p.Amount, Escape(method))
}

func PaymentApproved(channelName string, expiresAt time.Time, inviteLink string) string {
	text := fmt.Sprintf("🎉 <b>Congratulations!</b>\n\n"+
		"Your payment for <b>%s</b> has been approved.\n", Escape(channelName))
	if inviteLink != "" {
		text += fmt.Sprintf("Join here: %s\n", Escape(inviteLink))
	}
	text += fmt.Sprintf("\nYour subscription will expire on %s.\n\nEnjoy your premium content!", formatDate(expiresAt))
	return text
}

func PaymentRejected() string {
	return "❌ <b>Payment Rejected</b>\n\n" +
		"Your payment could not be verified.\n\n" +
		"Please try again or contact support for assistance."
}

func AdminApproved(channelName string) string {
	return fmt.Sprintf("✅ Payment approved and access granted for %s.", Escape(channelName))
}

func AdminManualActionNeeded(channelName string, userID int64, cause error) string {
	return fmt.Sprintf("⚠️ Payment approved but granting access to %s failed for user <code>%d</code>: %s\n"+
		"Please add the user manually.", Escape(channelName), userID, Escape(cause.Error()))
}

func AdminRejected() string {
	return "❌ Payment rejected."
}

func SubscriptionExpired(channelName string) string {
	return fmt.Sprintf("ℹ️ Your subscription to <b>%s</b> has expired. "+
		"To regain access, please renew your subscription.", Escape(channelName))
}

func RenewalReminder(channelName string, expiresAt time.Time, reminderDays int) string {
	return fmt.Sprintf("⚠️ <b>Subscription Renewal Reminder</b>\n\n"+
		"Your subscription to <b>%s</b> will expire on <b>%s</b> (%d days from now).\n\n"+
		"To maintain uninterrupted access, please renew your subscription.",
		Escape(channelName), formatDate(expiresAt), reminderDays)
}

func NoSubscriptions() string {
	return "You don't have any active subscriptions.\n\n" +
		"Use /start to browse our premium channels and subscribe."
}

func SubscriptionList(items []SubscriptionItem) string {
	text := "📚 <b>Your Active Subscriptions</b>\n\n"
	for _, item := range items {
		text += fmt.Sprintf("📌 <b>%s</b>\n   Expires on: %s\n\n", Escape(item.ChannelName), formatDate(item.ExpiresAt))
	}
	return text
}

type SubscriptionItem struct {
	ChannelName string
	ExpiresAt   time.Time
}

func ErrorDefault() string {
	return "🚫 <b>Something went wrong</b>\nPlease try again."
}

func ErrorUnknownCommand() string {
	return "❓ Unknown command. Use /help to see what I can do."
}

func ErrorUnknownChannel() string {
	return "Error: Channel not found."
}

func ErrorPaymentAlreadyDecided() string {
	return "This payment has already been processed."
}
