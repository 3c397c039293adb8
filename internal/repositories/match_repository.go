package repositories

import (
	"time"

	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/errors"
	"gorm.io/gorm"
)

// MatchRepository persists match sessions and their games. It is the
// durable side of the match engine; the in-memory registry is the
// authoritative view while the process is up.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// CreateSession inserts a new session row and fills in its ID.
func (r *MatchRepository) CreateSession(session *models.MatchSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create match session")
	}
	return nil
}

// UpdateSession writes the given session-level fields. The engine always
// passes the full field set so the persisted row never lags behind a
// partial in-memory mutation.
func (r *MatchRepository) UpdateSession(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&models.MatchSession{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update match session")
	}
	return nil
}

// InsertGame inserts a game row and fills in its ID.
func (r *MatchRepository) InsertGame(game *models.MatchGame) error {
	if err := r.db.Create(game).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to insert game")
	}
	return nil
}

// DeleteGame removes a game row by id.
func (r *MatchRepository) DeleteGame(id uint) error {
	result := r.db.Delete(&models.MatchGame{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete game")
	}
	return nil
}

// SetGameAck writes one of the two fixed ack slots of a game.
func (r *MatchRepository) SetGameAck(gameID uint, slot int, team, user string, at time.Time) error {
	var fields map[string]interface{}
	switch slot {
	case 1:
		fields = map[string]interface{}{
			"ack_team1":      team,
			"ack_team1_user": user,
			"ack_team1_at":   at,
		}
	case 2:
		fields = map[string]interface{}{
			"ack_team2":      team,
			"ack_team2_user": user,
			"ack_team2_at":   at,
		}
	default:
		return errors.New(errors.ErrCodeValidation, "ack slot must be 1 or 2")
	}

	result := r.db.Model(&models.MatchGame{}).
		Where("id = ?", gameID).
		Updates(fields)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to record acknowledgement")
	}
	return nil
}

// LoadActiveSessions returns every session whose status is not ended,
// with its games preloaded in game-number order. Used once at startup
// to rehydrate the registry.
func (r *MatchRepository) LoadActiveSessions() ([]models.MatchSession, error) {
	var sessions []models.MatchSession
	result := r.db.Where("status <> ?", models.MatchStatusEnded).
		Preload("Games", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_number ASC")
		}).
		Find(&sessions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load active sessions")
	}
	return sessions, nil
}
