package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MatchSession is one managed best-of-N match within a single channel.
// At most one session per channel has a status other than ended; that
// invariant is enforced by the in-memory registry, not the database.
type MatchSession struct {
	ID        uint  `gorm:"primaryKey"`
	GuildID   int64 `gorm:"not null;index"`
	ChannelID int64 `gorm:"not null;index"`
	MarshalID int64 `gorm:"not null"`
	BestOf    int   `gorm:"not null;default:3"`

	Status              string     `gorm:"type:varchar(20);default:'ongoing';index"`
	IsDisputed          bool       `gorm:"default:false"`
	AckStartTime        *time.Time
	DisputeStartTime    *time.Time
	TotalDisputeSeconds int64 `gorm:"default:0"`

	// LastMessageID is the transport identifier of the most recent result
	// notification, used to re-attach its interactive controls after a
	// restart.
	LastMessageID int `gorm:"default:0"`

	StartedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	EndedAt   *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`

	Games []MatchGame `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// Session status constants
const (
	MatchStatusOngoing     = "ongoing"
	MatchStatusCheckingAck = "checking_ack"
	MatchStatusEnded       = "ended"
)

func (MatchSession) TableName() string {
	return "match_sessions"
}

func (s *MatchSession) BeforeSave(tx *gorm.DB) error {
	if s.BestOf < 1 {
		return fmt.Errorf("best_of must be at least 1, got %d", s.BestOf)
	}
	switch s.Status {
	case MatchStatusOngoing, MatchStatusCheckingAck, MatchStatusEnded:
	default:
		return fmt.Errorf("invalid match status: %q", s.Status)
	}
	return nil
}

// MatchGame is one logged result within a session, pending two-sided
// acknowledgement. The two ack slots mirror the two sides of a match;
// a game is fully acknowledged when both slots are filled.
type MatchGame struct {
	ID         uint   `gorm:"primaryKey"`
	SessionID  uint   `gorm:"not null;index"`
	GameNumber int    `gorm:"not null"`
	Result     string `gorm:"type:text;not null"`

	AckTeam1     string `gorm:"type:varchar(100)"`
	AckTeam1User string `gorm:"type:varchar(200)"`
	AckTeam1At   *time.Time
	AckTeam2     string `gorm:"type:varchar(100)"`
	AckTeam2User string `gorm:"type:varchar(200)"`
	AckTeam2At   *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (MatchGame) TableName() string {
	return "match_games"
}

func (g *MatchGame) BeforeSave(tx *gorm.DB) error {
	if g.GameNumber < 1 {
		return fmt.Errorf("game_number must be at least 1, got %d", g.GameNumber)
	}
	return nil
}
