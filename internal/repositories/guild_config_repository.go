package repositories

import (
	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/errors"
	"gorm.io/gorm"
)

type GuildConfigRepository struct {
	db *gorm.DB
}

func NewGuildConfigRepository(db *gorm.DB) *GuildConfigRepository {
	return &GuildConfigRepository{db: db}
}

// Get returns the stored value for a guild key, or empty string when the
// key has never been set.
func (r *GuildConfigRepository) Get(guildID int64, key string) (string, error) {
	var cfg models.GuildConfig
	result := r.db.Where("guild_id = ? AND key = ?", guildID, key).First(&cfg)

	if result.Error == gorm.ErrRecordNotFound {
		return "", nil
	}
	if result.Error != nil {
		return "", errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to read guild config")
	}
	return cfg.Value, nil
}

// Set stores or replaces a guild config value.
func (r *GuildConfigRepository) Set(guildID int64, key, value string) error {
	var existing models.GuildConfig
	result := r.db.Where("guild_id = ? AND key = ?", guildID, key).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		cfg := models.GuildConfig{GuildID: guildID, Key: key, Value: value}
		if err := r.db.Create(&cfg).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create guild config")
		}
		return nil
	}
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to read guild config")
	}

	if err := r.db.Model(&existing).Update("value", value).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update guild config")
	}
	return nil
}
