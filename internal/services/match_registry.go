package services

import (
	"sync"
	"time"

	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/errors"
	"github.com/leaguekit/leaguebot/pkg/logger"
)

// MatchRegistry is the authoritative in-memory store of live sessions,
// keyed by channel. The database mirror exists for crash recovery; all
// lookups during normal operation go through the registry.
type MatchRegistry struct {
	mu       sync.RWMutex
	sessions map[int64]*MatchSession
	store    MatchStore
	now      func() time.Time
}

func NewMatchRegistry(store MatchStore) *MatchRegistry {
	return &MatchRegistry{
		sessions: make(map[int64]*MatchSession),
		store:    store,
		now:      time.Now,
	}
}

// SetClock overrides the registry clock. Sessions created afterwards
// inherit it.
func (r *MatchRegistry) SetClock(now func() time.Time) {
	r.now = now
}

// Start creates a session for a channel. At most one live session per
// channel is allowed.
func (r *MatchRegistry) Start(guildID, channelID, marshalID int64, bestOf int) (*MatchSession, error) {
	if bestOf < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "best-of must be at least 1")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[channelID]; ok {
		return nil, errors.New(errors.ErrCodeAlreadyActive, "a match is already ongoing in this channel")
	}

	startedAt := r.now()
	row := &models.MatchSession{
		GuildID:   guildID,
		ChannelID: channelID,
		MarshalID: marshalID,
		BestOf:    bestOf,
		Status:    models.MatchStatusOngoing,
		StartedAt: startedAt,
	}
	if err := r.store.CreateSession(row); err != nil {
		return nil, err
	}

	session := &MatchSession{
		store:     r.store,
		now:       r.now,
		dbID:      row.ID,
		guildID:   guildID,
		channelID: channelID,
		marshalID: marshalID,
		bestOf:    bestOf,
		status:    models.MatchStatusOngoing,
		startedAt: startedAt,
	}
	r.sessions[channelID] = session
	return session, nil
}

// Get returns the live session for a channel, or nil.
func (r *MatchRegistry) Get(channelID int64) *MatchSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[channelID]
}

// End terminates the channel's session and removes it from the registry.
// On a persistence failure the session stays registered so the command
// can be retried.
func (r *MatchRegistry) End(channelID int64) (*MatchSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[channelID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNoActiveSession, "no active match in this channel")
	}
	if err := session.End(); err != nil {
		return nil, err
	}
	delete(r.sessions, channelID)
	return session, nil
}

// Cancel discards the channel's session. It is the same terminal
// transition as End; the distinction is purely in how the caller
// announces it.
func (r *MatchRegistry) Cancel(channelID int64) (*MatchSession, error) {
	return r.End(channelID)
}

// ActiveCount reports how many sessions are live.
func (r *MatchRegistry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Restore rebuilds the registry from persisted non-ended sessions after
// a restart and returns them so the transport can re-attach interactive
// controls.
func (r *MatchRegistry) Restore() ([]*MatchSession, error) {
	rows, err := r.store.LoadActiveSessions()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var restored []*MatchSession
	for i := range rows {
		row := &rows[i]
		if _, ok := r.sessions[row.ChannelID]; ok {
			logger.Warn("Skipping duplicate persisted session",
				"channel_id", row.ChannelID, "session_id", row.ID)
			continue
		}
		session := restoreSession(row, r.store, r.now)
		r.sessions[row.ChannelID] = session
		restored = append(restored, session)
	}
	return restored, nil
}

func restoreSession(row *models.MatchSession, store MatchStore, now func() time.Time) *MatchSession {
	session := &MatchSession{
		store:               store,
		now:                 now,
		dbID:                row.ID,
		guildID:             row.GuildID,
		channelID:           row.ChannelID,
		marshalID:           row.MarshalID,
		bestOf:              row.BestOf,
		status:              row.Status,
		isDisputed:          row.IsDisputed,
		ackStartTime:        row.AckStartTime,
		disputeStartTime:    row.DisputeStartTime,
		totalDisputeSeconds: row.TotalDisputeSeconds,
		lastMessageID:       row.LastMessageID,
		startedAt:           row.StartedAt,
	}

	for i := range row.Games {
		g := &row.Games[i]
		game := &Game{
			ID:        g.ID,
			Number:    g.GameNumber,
			Result:    g.Result,
			CreatedAt: g.CreatedAt,
		}
		if g.AckTeam1 != "" {
			game.Acks[0] = restoredAck(g.AckTeam1, g.AckTeam1User, g.AckTeam1At)
		}
		if g.AckTeam2 != "" {
			game.Acks[1] = restoredAck(g.AckTeam2, g.AckTeam2User, g.AckTeam2At)
		}
		session.games = append(session.games, game)
	}
	return session
}

func restoredAck(team, user string, at *time.Time) *GameAck {
	ack := &GameAck{Team: team, User: user}
	if at != nil {
		ack.At = *at
	}
	return ack
}
