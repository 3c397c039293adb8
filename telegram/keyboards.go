package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leaguekit/leaguebot/internal/handlers"
)

// DisputeKeyboard is attached to every posted game result while it
// awaits acknowledgement.
func DisputeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚠️ Dispute result", handlers.CallbackDispute),
		),
	)
}

// ResolveKeyboard replaces the dispute button while a dispute is open.
func ResolveKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤝 Resolve dispute", handlers.CallbackResolve),
		),
	)
}

// EndConfirmKeyboard asks the marshal to confirm ending a match that
// still has unacknowledged games.
func EndConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ End anyway", handlers.CallbackEndConfirm),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Keep playing", handlers.CallbackEndAbort),
		),
	)
}
