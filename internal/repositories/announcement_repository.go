package repositories

import (
	"time"

	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/errors"
	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(a *models.Announcement) error {
	if err := r.db.Create(a).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create announcement")
	}
	return nil
}

// Due returns enabled announcements whose next run is at or before now.
func (r *AnnouncementRepository) Due(now time.Time) ([]models.Announcement, error) {
	var due []models.Announcement
	result := r.db.Where("enabled = ? AND next_run_at <= ?", true, now).Find(&due)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load due announcements")
	}
	return due, nil
}

// Reschedule advances an announcement's next run time.
func (r *AnnouncementRepository) Reschedule(id uint, next time.Time) error {
	result := r.db.Model(&models.Announcement{}).
		Where("id = ?", id).
		Update("next_run_at", next)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to reschedule announcement")
	}
	return nil
}

// DisableForChannel turns off every announcement in a channel and returns
// how many were affected.
func (r *AnnouncementRepository) DisableForChannel(guildID, channelID int64) (int64, error) {
	result := r.db.Model(&models.Announcement{}).
		Where("guild_id = ? AND channel_id = ? AND enabled = ?", guildID, channelID, true).
		Update("enabled", false)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to disable announcements")
	}
	return result.RowsAffected, nil
}
