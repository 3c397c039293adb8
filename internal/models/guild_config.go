package models

import "time"

// GuildConfig is a per-guild key/value configuration row, e.g. the
// configured marshal role.
type GuildConfig struct {
	ID        uint      `gorm:"primaryKey"`
	GuildID   int64     `gorm:"not null;uniqueIndex:idx_guild_config_key"`
	Key       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_guild_config_key"`
	Value     string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Known config keys
const (
	ConfigKeyMarshalRole = "marshal_role_id"
)

func (GuildConfig) TableName() string {
	return "guild_configs"
}
