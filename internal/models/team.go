package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Team is one competing side in the league, identified in chat by its
// abbreviation (e.g. "TNC").
type Team struct {
	ID        uint      `gorm:"primaryKey"`
	GuildID   int64     `gorm:"not null;uniqueIndex:idx_team_guild_abbrev"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Abbrev    string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_team_guild_abbrev"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Players []RosterPlayer `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

func (Team) TableName() string {
	return "teams"
}

func (t *Team) BeforeSave(tx *gorm.DB) error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Abbrev == "" {
		return fmt.Errorf("team abbreviation is required")
	}
	return nil
}

// RosterPlayer is one entry of the imported league roster.
type RosterPlayer struct {
	ID        uint      `gorm:"primaryKey"`
	TeamID    uint      `gorm:"not null;index"`
	IGN       string    `gorm:"type:varchar(100);not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RosterPlayer) TableName() string {
	return "roster_players"
}

// VerifiedUser binds a chat user to a roster identity. The team lookup
// behind the "i acknowledge" path resolves through this table.
type VerifiedUser struct {
	ID         uint      `gorm:"primaryKey"`
	GuildID    int64     `gorm:"not null;uniqueIndex:idx_verified_guild_user"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_verified_guild_user"`
	TeamID     uint      `gorm:"not null;index"`
	Team       Team      `gorm:"foreignKey:TeamID"`
	IGN        string    `gorm:"type:varchar(100);not null"`
	VerifiedAt time.Time `gorm:"autoCreateTime"`
}

func (VerifiedUser) TableName() string {
	return "verified_users"
}
