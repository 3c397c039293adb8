package repositories

import (
	"time"

	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/errors"
	"gorm.io/gorm"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Open creates a ticket. A member may only have one open ticket per guild.
func (r *TicketRepository) Open(ticket *models.Ticket) error {
	var existing models.Ticket
	result := r.db.Where("guild_id = ? AND opener_id = ? AND status = ?",
		ticket.GuildID, ticket.OpenerID, models.TicketStatusOpen).First(&existing)

	if result.Error == nil {
		return errors.New(errors.ErrCodeAlreadyExists, "you already have an open ticket")
	}
	if result.Error != gorm.ErrRecordNotFound {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check open tickets")
	}

	if err := r.db.Create(ticket).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to open ticket")
	}
	return nil
}

// GetOpen returns the opener's open ticket in this guild, if any.
func (r *TicketRepository) GetOpen(guildID, openerID int64) (*models.Ticket, error) {
	var ticket models.Ticket
	result := r.db.Where("guild_id = ? AND opener_id = ? AND status = ?",
		guildID, openerID, models.TicketStatusOpen).First(&ticket)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to look up ticket")
	}
	return &ticket, nil
}

// Close marks a ticket closed.
func (r *TicketRepository) Close(ticketID uint) error {
	now := time.Now()
	result := r.db.Model(&models.Ticket{}).
		Where("id = ?", ticketID).
		Updates(map[string]interface{}{
			"status":    models.TicketStatusClosed,
			"closed_at": now,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to close ticket")
	}
	return nil
}
