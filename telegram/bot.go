package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leaguekit/leaguebot/internal/config"
	"github.com/leaguekit/leaguebot/internal/handlers"
	"github.com/leaguekit/leaguebot/internal/repositories"
	"github.com/leaguekit/leaguebot/internal/services"
	"github.com/leaguekit/leaguebot/pkg/logger"
	"gorm.io/gorm"
)

const numWorkers = 10

type Bot struct {
	api      *tgbotapi.BotAPI
	config   *config.Config
	db       *gorm.DB
	handlers *handlers.HandlerManager
	registry *services.MatchRegistry

	announcements *services.AnnouncementService

	// Worker pool for parallel processing; updates are hashed by chat so
	// commands within one channel are handled in order.
	workerChans []chan tgbotapi.Update
}

func InitBot(cfg *config.Config, db *gorm.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	// Initialize repositories
	matchRepo := repositories.NewMatchRepository(db)
	configRepo := repositories.NewGuildConfigRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	ticketRepo := repositories.NewTicketRepository(db)
	announcementRepo := repositories.NewAnnouncementRepository(db)

	registry := services.NewMatchRegistry(matchRepo)
	policy := services.NewMatchPolicy(configRepo, cfg.MarshalRoleID)

	handlerMgr := handlers.NewHandlerManager(cfg, db, registry, policy,
		matchRepo, configRepo, teamRepo, ticketRepo, announcementRepo)

	bot := &Bot{
		api:         api,
		config:      cfg,
		db:          db,
		handlers:    handlerMgr,
		registry:    registry,
		workerChans: make([]chan tgbotapi.Update, numWorkers),
	}

	announcements, err := services.NewAnnouncementService(announcementRepo, bot,
		time.Duration(cfg.AnnouncementDrainSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to create announcement scheduler: %w", err)
	}
	bot.announcements = announcements

	// Rehydrate live sessions before accepting updates so commands never
	// see a half-restored registry.
	restored, err := registry.Restore()
	if err != nil {
		return nil, fmt.Errorf("failed to restore match sessions: %w", err)
	}
	if len(restored) > 0 {
		logger.Info("Restored match sessions", "count", len(restored))
		handlerMgr.ReattachControls(restored, bot)
	}

	// Start workers
	for i := 0; i < numWorkers; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	go bot.startUpdateListener()

	if err := announcements.Start(); err != nil {
		return nil, fmt.Errorf("failed to start announcement scheduler: %w", err)
	}

	return bot, nil
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			var chatID int64
			if update.Message != nil {
				chatID = update.Message.Chat.ID
			} else if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
				chatID = update.CallbackQuery.Message.Chat.ID
			}

			if chatID != 0 {
				// Hashed dispatch so each channel's updates stay ordered
				workerIdx := chatID % int64(len(b.workerChans))
				if workerIdx < 0 {
					workerIdx = -workerIdx
				}
				b.workerChans[workerIdx] <- update
			} else {
				go b.handleUpdate(update)
			}
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		time.Sleep(5 * time.Second)
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	chatID := message.Chat.ID

	logger.Debug("Received message",
		"chat_id", chatID,
		"user_id", message.From.ID,
		"text", message.Text,
	)

	actor := b.buildActor(chatID, message.From)

	if message.IsCommand() {
		b.handleCommand(message, actor)
		return
	}

	// Acknowledgement phrase listener
	if strings.Contains(strings.ToLower(message.Text), handlers.AckPhrase) {
		b.handlers.HandleAckPhrase(message, actor, b)
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message, actor services.Actor) {
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		if strings.HasPrefix(args, "verify_") {
			b.handlers.HandleVerifyRedeem(message, actor, strings.TrimPrefix(args, "verify_"), b)
			return
		}
		b.sendMessage(message.Chat.ID, MsgWelcome, nil)

	case "help":
		b.sendMessage(message.Chat.ID, MsgHelp, nil)

	case "match_start":
		b.handlers.HandleMatchStart(message, actor, args, b)

	case "game_result":
		b.handlers.HandleGameResult(message, actor, args, b)

	case "match_undo_game":
		b.handlers.HandleUndoGame(message, actor, b)

	case "match_force_ack":
		b.handlers.HandleForceAck(message, actor, args, b)

	case "match_end":
		b.handlers.HandleMatchEnd(message, actor, b)

	case "match_cancel":
		b.handlers.HandleMatchCancel(message, actor, b)

	case "match_status":
		b.handlers.HandleMatchStatus(message, b)

	case "set_marshal_role":
		b.handlers.HandleSetMarshalRole(message, actor, args, b)

	case "ticket":
		b.handlers.HandleTicketOpen(message, actor, args, b)

	case "ticket_close":
		b.handlers.HandleTicketClose(message, actor, b)

	case "announce":
		b.handlers.HandleAnnounce(message, actor, args, b)

	case "announce_stop":
		b.handlers.HandleAnnounceStop(message, actor, b)

	case "verify":
		b.handlers.HandleVerifyRequest(message, actor, args, b)
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.From == nil || query.Message == nil {
		return
	}

	logger.Debug("Received callback",
		"chat_id", query.Message.Chat.ID,
		"user_id", query.From.ID,
		"data", query.Data,
	)

	actor := b.buildActor(query.Message.Chat.ID, query.From)

	if strings.HasPrefix(query.Data, "match_") {
		b.handlers.HandleMatchCallback(query, actor, b)
	}
}

// buildActor resolves the sender's identity. Chat creator/administrator
// status maps to the admin tier of the permission policy.
func (b *Bot) buildActor(chatID int64, user *tgbotapi.User) services.Actor {
	actor := services.Actor{
		ID:          user.ID,
		DisplayName: displayName(user),
	}

	if chatID != user.ID {
		member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				ChatID: chatID,
				UserID: user.ID,
			},
		})
		if err != nil {
			logger.Warn("Failed to look up chat member",
				"chat_id", chatID, "user_id", user.ID, "error", err)
		} else if member.IsCreator() || member.IsAdministrator() {
			actor.IsAdmin = true
		}
	}

	return actor
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	return name
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			// If it's a network error, wait and retry
			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

func (b *Bot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	return b.sendMessage(chatID, text, keyboard)
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string, keyboard interface{}) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if keyboard != nil {
		if kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup); ok {
			msg.ReplyMarkup = &kb
		}
	}

	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

// EditMessageReplyMarkup swaps a message's inline keyboard. A nil
// keyboard clears it.
func (b *Bot) EditMessageReplyMarkup(chatID int64, messageID int, keyboard interface{}) {
	kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		kb = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, kb)
	if _, err := b.api.Request(edit); err != nil {
		logger.Error("Failed to edit reply markup", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func (b *Bot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

// SendAnnouncement delivers a scheduled announcement to its channel.
func (b *Bot) SendAnnouncement(chatID int64, content string) error {
	if msgID := b.sendMessage(chatID, "📣 "+content, nil); msgID == 0 {
		return fmt.Errorf("failed to deliver announcement to chat %d", chatID)
	}
	return nil
}

func (b *Bot) BotUsername() string {
	return b.api.Self.UserName
}

func (b *Bot) GetDisputeKeyboard() interface{} {
	return DisputeKeyboard()
}

func (b *Bot) GetResolveKeyboard() interface{} {
	return ResolveKeyboard()
}

func (b *Bot) GetEndConfirmKeyboard() interface{} {
	return EndConfirmKeyboard()
}

func (b *Bot) Stop() {
	b.announcements.Stop()
	b.api.StopReceivingUpdates()
}
