package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Ticket is a support request opened by a member.
type Ticket struct {
	ID        uint       `gorm:"primaryKey"`
	Reference string     `gorm:"type:varchar(36);uniqueIndex;not null"`
	GuildID   int64      `gorm:"not null;index"`
	ChannelID int64      `gorm:"not null;index"`
	OpenerID  int64      `gorm:"not null;index"`
	Subject   string     `gorm:"type:text;not null"`
	Status    string     `gorm:"type:varchar(20);default:'open';index"`
	OpenedAt  time.Time  `gorm:"autoCreateTime"`
	ClosedAt  *time.Time
}

// Ticket status constants
const (
	TicketStatusOpen   = "open"
	TicketStatusClosed = "closed"
)

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) BeforeSave(tx *gorm.DB) error {
	switch t.Status {
	case TicketStatusOpen, TicketStatusClosed:
	default:
		return fmt.Errorf("invalid ticket status: %q", t.Status)
	}
	return nil
}
