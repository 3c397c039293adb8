package handlers

import (
	"github.com/leaguekit/leaguebot/internal/config"
	"github.com/leaguekit/leaguebot/internal/repositories"
	"github.com/leaguekit/leaguebot/internal/services"
	"gorm.io/gorm"
)

// Bot interface to avoid circular dependency
type BotInterface interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
	EditMessage(chatID int64, messageID int, text string, keyboard interface{})
	EditMessageReplyMarkup(chatID int64, messageID int, keyboard interface{})
	AnswerCallbackQuery(queryID string, text string, showAlert bool)
	GetDisputeKeyboard() interface{}
	GetResolveKeyboard() interface{}
	GetEndConfirmKeyboard() interface{}
	BotUsername() string
}

type HandlerManager struct {
	Config           *config.Config
	DB               *gorm.DB
	Registry         *services.MatchRegistry
	Policy           *services.MatchPolicy
	MatchRepo        *repositories.MatchRepository
	ConfigRepo       *repositories.GuildConfigRepository
	TeamRepo         *repositories.TeamRepository
	TicketRepo       *repositories.TicketRepository
	AnnouncementRepo *repositories.AnnouncementRepository
}

func NewHandlerManager(
	cfg *config.Config,
	db *gorm.DB,
	registry *services.MatchRegistry,
	policy *services.MatchPolicy,
	matchRepo *repositories.MatchRepository,
	configRepo *repositories.GuildConfigRepository,
	teamRepo *repositories.TeamRepository,
	ticketRepo *repositories.TicketRepository,
	announcementRepo *repositories.AnnouncementRepository,
) *HandlerManager {
	return &HandlerManager{
		Config:           cfg,
		DB:               db,
		Registry:         registry,
		Policy:           policy,
		MatchRepo:        matchRepo,
		ConfigRepo:       configRepo,
		TeamRepo:         teamRepo,
		TicketRepo:       ticketRepo,
		AnnouncementRepo: announcementRepo,
	}
}
