package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Announcement is a recurring scheduled message posted to a channel.
type Announcement struct {
	ID              uint      `gorm:"primaryKey"`
	GuildID         int64     `gorm:"not null;index"`
	ChannelID       int64     `gorm:"not null;index"`
	Content         string    `gorm:"type:text;not null"`
	IntervalMinutes int       `gorm:"not null"`
	NextRunAt       time.Time `gorm:"not null;index"`
	Enabled         bool      `gorm:"default:true;index"`
	CreatedBy       int64     `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (Announcement) TableName() string {
	return "announcements"
}

func (a *Announcement) BeforeSave(tx *gorm.DB) error {
	if a.IntervalMinutes < 1 {
		return fmt.Errorf("interval must be at least 1 minute, got %d", a.IntervalMinutes)
	}
	if a.Content == "" {
		return fmt.Errorf("announcement content is required")
	}
	return nil
}
