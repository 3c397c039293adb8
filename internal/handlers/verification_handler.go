package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leaguekit/leaguebot/internal/security"
	"github.com/leaguekit/leaguebot/internal/services"
	"github.com/leaguekit/leaguebot/pkg/logger"
)

// HandleVerifyRequest lets a marshal issue a deep-link verification token
// for a roster player. The player redeems it with /start verify_<token>.
func (h *HandlerManager) HandleVerifyRequest(message *tgbotapi.Message, actor services.Actor, args string, bot BotInterface) {
	chatID := message.Chat.ID

	if err := h.Policy.Authorize(chatID, actor, nil); err != nil {
		bot.SendMessage(chatID, "🚫 Only marshals and admins can issue verification links.", nil)
		return
	}

	ign := strings.TrimSpace(args)
	if !security.ValidateIGN(ign) {
		bot.SendMessage(chatID, "Usage: /verify <in-game name>", nil)
		return
	}

	player, team, err := h.TeamRepo.FindRosterPlayer(chatID, ign)
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	token, err := security.GenerateVerificationToken(chatID, team.ID, player.IGN, h.Config.JWTSecret)
	if err != nil {
		logger.Error("Failed to sign verification token", "ign", ign, "error", err)
		bot.SendMessage(chatID, "❌ Could not create a verification link. Please try again.", nil)
		return
	}

	bot.SendMessage(chatID, fmt.Sprintf(
		"🔗 Verification link for <b>%s</b> (%s):\nhttps://t.me/%s?start=verify_%s\n\nThe link is personal and expires in 48 hours.",
		player.IGN, team.Abbrev, bot.BotUsername(), token), nil)
}

// HandleVerifyRedeem runs when a user opens the bot through a
// verification deep link.
func (h *HandlerManager) HandleVerifyRedeem(message *tgbotapi.Message, actor services.Actor, token string, bot BotInterface) {
	chatID := message.Chat.ID

	claims, err := security.ValidateVerificationToken(token, h.Config.JWTSecret)
	if err != nil {
		bot.SendMessage(chatID, "❌ This verification link is invalid or has expired. Ask a marshal for a new one.", nil)
		return
	}

	if err := h.TeamRepo.Verify(claims.GuildID, actor.ID, claims.TeamID, claims.IGN); err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	logger.Info("User verified",
		"guild_id", claims.GuildID, "user_id", actor.ID, "team_id", claims.TeamID, "ign", claims.IGN)
	bot.SendMessage(chatID, fmt.Sprintf(
		"✅ You are verified as <b>%s</b>. Your acknowledgements now count for your team.", claims.IGN), nil)
}
