package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/internal/security"
	"github.com/leaguekit/leaguebot/internal/services"
	"github.com/leaguekit/leaguebot/pkg/logger"
)

func (h *HandlerManager) HandleAnnounce(message *tgbotapi.Message, actor services.Actor, args string, bot BotInterface) {
	chatID := message.Chat.ID

	if err := h.Policy.Authorize(chatID, actor, nil); err != nil {
		bot.SendMessage(chatID, "🚫 Only marshals and admins can schedule announcements.", nil)
		return
	}

	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(parts) < 2 {
		bot.SendMessage(chatID, "Usage: /announce <interval minutes> <text>", nil)
		return
	}

	interval, err := strconv.Atoi(parts[0])
	if err != nil || interval < 1 {
		bot.SendMessage(chatID, "⚠️ The interval must be a whole number of minutes, at least 1.", nil)
		return
	}

	content := security.SanitizeHTML(security.SanitizeString(parts[1]))
	if content == "" {
		bot.SendMessage(chatID, "⚠️ The announcement text is empty.", nil)
		return
	}

	announcement := &models.Announcement{
		GuildID:         chatID,
		ChannelID:       chatID,
		Content:         content,
		IntervalMinutes: interval,
		NextRunAt:       time.Now().Add(time.Duration(interval) * time.Minute),
		Enabled:         true,
		CreatedBy:       actor.ID,
	}
	if err := h.AnnouncementRepo.Create(announcement); err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	logger.Info("Announcement scheduled",
		"announcement_id", announcement.ID, "channel_id", chatID, "interval_minutes", interval)
	bot.SendMessage(chatID, fmt.Sprintf("📣 Announcement scheduled every %d minute(s).", interval), nil)
}

func (h *HandlerManager) HandleAnnounceStop(message *tgbotapi.Message, actor services.Actor, bot BotInterface) {
	chatID := message.Chat.ID

	if err := h.Policy.Authorize(chatID, actor, nil); err != nil {
		bot.SendMessage(chatID, "🚫 Only marshals and admins can stop announcements.", nil)
		return
	}

	count, err := h.AnnouncementRepo.DisableForChannel(chatID, chatID)
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}
	if count == 0 {
		bot.SendMessage(chatID, "ℹ️ There are no running announcements in this channel.", nil)
		return
	}
	bot.SendMessage(chatID, fmt.Sprintf("🔕 Stopped %d announcement(s).", count), nil)
}
