package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/internal/security"
	"github.com/leaguekit/leaguebot/internal/services"
	apperrors "github.com/leaguekit/leaguebot/pkg/errors"
	"github.com/leaguekit/leaguebot/pkg/logger"
)

func (h *HandlerManager) HandleTicketOpen(message *tgbotapi.Message, actor services.Actor, args string, bot BotInterface) {
	chatID := message.Chat.ID

	subject := security.SanitizeHTML(security.SanitizeString(args))
	if subject == "" {
		bot.SendMessage(chatID, "Usage: /ticket <subject>", nil)
		return
	}

	ticket := &models.Ticket{
		Reference: uuid.NewString(),
		GuildID:   chatID,
		ChannelID: chatID,
		OpenerID:  actor.ID,
		Subject:   subject,
		Status:    models.TicketStatusOpen,
	}
	if err := h.TicketRepo.Open(ticket); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeAlreadyExists) {
			bot.SendMessage(chatID, "⚠️ You already have an open ticket. Close it first with /ticket_close.", nil)
			return
		}
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	logger.Info("Ticket opened",
		"reference", ticket.Reference, "guild_id", chatID, "opener_id", actor.ID)
	bot.SendMessage(chatID, fmt.Sprintf(
		"🎫 Ticket opened.\nReference: <code>%s</code>\nSubject: %s\nA marshal will get back to you.",
		ticket.Reference, ticket.Subject), nil)
}

func (h *HandlerManager) HandleTicketClose(message *tgbotapi.Message, actor services.Actor, bot BotInterface) {
	chatID := message.Chat.ID

	ticket, err := h.TicketRepo.GetOpen(chatID, actor.ID)
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}
	if ticket == nil {
		bot.SendMessage(chatID, "ℹ️ You have no open ticket.", nil)
		return
	}

	if err := h.TicketRepo.Close(ticket.ID); err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	logger.Info("Ticket closed", "reference", ticket.Reference, "opener_id", actor.ID)
	bot.SendMessage(chatID, fmt.Sprintf("✅ Ticket <code>%s</code> closed.", ticket.Reference), nil)
}
