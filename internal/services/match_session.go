package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/errors"
	"github.com/leaguekit/leaguebot/pkg/utils"
)

// ForceAckThreshold is how much effective (undisputed) waiting time must
// pass before a marshal may force-acknowledge for an unresponsive team.
const ForceAckThreshold = 5 * time.Minute

// MatchStore is the persistence surface the engine writes through. Every
// mutating operation persists its delta before returning; store errors
// propagate to the caller so a stale durable record is never reported as
// success.
type MatchStore interface {
	CreateSession(session *models.MatchSession) error
	UpdateSession(id uint, fields map[string]interface{}) error
	InsertGame(game *models.MatchGame) error
	DeleteGame(id uint) error
	SetGameAck(gameID uint, slot int, team, user string, at time.Time) error
	LoadActiveSessions() ([]models.MatchSession, error)
}

// ErrThresholdNotElapsed reports a force-ack attempted before the
// threshold, with the effective time still to wait.
type ErrThresholdNotElapsed struct {
	Remaining time.Duration
}

func (e *ErrThresholdNotElapsed) Error() string {
	return fmt.Sprintf("force-ack available in %s", utils.FormatMinSec(e.Remaining))
}

// GameAck is one side's confirmation of a logged result.
type GameAck struct {
	Team string
	User string
	At   time.Time
}

// Game is one logged result. Acks is an ordered pair of slots, filled in
// acknowledgement order; the game is fully acknowledged when both slots
// are set.
type Game struct {
	ID        uint
	Number    int
	Result    string
	Acks      [2]*GameAck
	CreatedAt time.Time
}

func (g *Game) AckCount() int {
	count := 0
	for _, a := range g.Acks {
		if a != nil {
			count++
		}
	}
	return count
}

// AckFor returns the ack recorded for a team, or nil.
func (g *Game) AckFor(team string) *GameAck {
	for _, a := range g.Acks {
		if a != nil && a.Team == team {
			return a
		}
	}
	return nil
}

func (g *Game) IsAcked() bool {
	return g.AckCount() >= 2
}

// AckList returns the filled slots in acknowledgement order.
func (g *Game) AckList() []GameAck {
	var list []GameAck
	for _, a := range g.Acks {
		if a != nil {
			list = append(list, *a)
		}
	}
	return list
}

// MatchSession owns the lifecycle of one best-of-N match: the game log,
// the acknowledgement/dispute timer and persistence synchronization. All
// state-mutating operations hold the session mutex, so overlapping
// commands from two privileged actors cannot interleave.
type MatchSession struct {
	mu    sync.Mutex
	store MatchStore
	now   func() time.Time

	dbID      uint
	guildID   int64
	channelID int64
	marshalID int64
	bestOf    int

	status              string
	isDisputed          bool
	ackStartTime        *time.Time
	disputeStartTime    *time.Time
	totalDisputeSeconds int64
	lastMessageID       int
	startedAt           time.Time
	games               []*Game
}

func (s *MatchSession) DBID() uint       { return s.dbID }
func (s *MatchSession) GuildID() int64   { return s.guildID }
func (s *MatchSession) ChannelID() int64 { return s.channelID }
func (s *MatchSession) MarshalID() int64 { return s.marshalID }
func (s *MatchSession) BestOf() int      { return s.bestOf }

func (s *MatchSession) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *MatchSession) IsDisputed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDisputed
}

func (s *MatchSession) LastMessageID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMessageID
}

func (s *MatchSession) GameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

func (s *MatchSession) StartedAt() time.Time {
	return s.startedAt
}

// syncSession persists the full session-level field set. Callers hold the
// session mutex.
func (s *MatchSession) syncSession() error {
	var endedAt *time.Time
	if s.status == models.MatchStatusEnded {
		now := s.now()
		endedAt = &now
	}

	fields := map[string]interface{}{
		"status":                s.status,
		"is_disputed":           s.isDisputed,
		"ack_start_time":        s.ackStartTime,
		"dispute_start_time":    s.disputeStartTime,
		"total_dispute_seconds": s.totalDisputeSeconds,
		"last_message_id":       s.lastMessageID,
		"ended_at":              endedAt,
	}
	return s.store.UpdateSession(s.dbID, fields)
}

// AddGame logs a new result and enters checking_ack. Dispute accounting
// is reset because disputes are scoped to the game currently pending
// acknowledgement, not the session lifetime.
func (s *MatchSession) AddGame(result string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == models.MatchStatusCheckingAck {
		return nil, errors.New(errors.ErrCodePendingAck, "previous game is still awaiting acknowledgement")
	}
	if s.status != models.MatchStatusOngoing {
		return nil, errors.New(errors.ErrCodeValidation, "match session is not accepting results")
	}

	now := s.now()
	row := &models.MatchGame{
		SessionID:  s.dbID,
		GameNumber: len(s.games) + 1,
		Result:     result,
	}
	if err := s.store.InsertGame(row); err != nil {
		return nil, err
	}

	game := &Game{
		ID:        row.ID,
		Number:    row.GameNumber,
		Result:    result,
		CreatedAt: now,
	}
	s.games = append(s.games, game)

	s.status = models.MatchStatusCheckingAck
	s.ackStartTime = &now
	s.disputeStartTime = nil
	s.totalDisputeSeconds = 0
	s.isDisputed = false

	if err := s.syncSession(); err != nil {
		return nil, err
	}
	return game, nil
}

// UndoGame removes the last logged game and returns the session to
// ongoing. Returns false when there is nothing to undo.
func (s *MatchSession) UndoGame() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.games) == 0 {
		return false, nil
	}

	last := s.games[len(s.games)-1]
	if err := s.store.DeleteGame(last.ID); err != nil {
		return false, err
	}
	s.games = s.games[:len(s.games)-1]

	s.status = models.MatchStatusOngoing
	s.ackStartTime = nil
	s.disputeStartTime = nil
	s.totalDisputeSeconds = 0
	s.isDisputed = false

	if err := s.syncSession(); err != nil {
		return false, err
	}
	return true, nil
}

// AckGame records a team's acknowledgement of the current game. Returns
// true once both sides have acknowledged and the session is back to
// ongoing. A repeated ack by the same team overwrites its slot
// (last-write-wins); duplicate suppression is the caller's job.
func (s *MatchSession) AckGame(team, actor string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ackGameLocked(team, actor)
}

func (s *MatchSession) ackGameLocked(team, actor string) (bool, error) {
	if s.status != models.MatchStatusCheckingAck || len(s.games) == 0 {
		return false, nil
	}

	now := s.now()
	game := s.games[len(s.games)-1]

	slot := -1
	for i, a := range game.Acks {
		if a != nil && a.Team == team {
			slot = i
			break
		}
	}
	if slot < 0 {
		for i, a := range game.Acks {
			if a == nil {
				slot = i
				break
			}
		}
	}
	if slot < 0 {
		return false, nil
	}

	game.Acks[slot] = &GameAck{Team: team, User: actor, At: now}
	if err := s.store.SetGameAck(game.ID, slot+1, team, actor, now); err != nil {
		return false, err
	}

	if game.AckCount() >= 2 {
		s.status = models.MatchStatusOngoing
		if err := s.syncSession(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// IsCurrentGameAcked reports whether the last logged game has both acks.
func (s *MatchSession) IsCurrentGameAcked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.games) == 0 {
		return false
	}
	return s.games[len(s.games)-1].IsAcked()
}

// CurrentGame returns a copy of the game pending acknowledgement, or nil.
func (s *MatchSession) CurrentGame() *Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.games) == 0 {
		return nil
	}
	game := *s.games[len(s.games)-1]
	return &game
}

// EffectiveElapsed is the time since the current result was posted with
// dispute spans subtracted: closed disputes are accumulated in
// totalDisputeSeconds, an open one is computed live. The timer is a pure
// function of timestamps; nothing runs in the background.
func (s *MatchSession) EffectiveElapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveElapsedLocked()
}

func (s *MatchSession) effectiveElapsedLocked() time.Duration {
	if s.ackStartTime == nil {
		return 0
	}

	now := s.now()
	elapsed := now.Sub(*s.ackStartTime)

	var currentDispute time.Duration
	if s.isDisputed && s.disputeStartTime != nil {
		currentDispute = now.Sub(*s.disputeStartTime)
	}

	return elapsed - time.Duration(s.totalDisputeSeconds)*time.Second - currentDispute
}

// MinGamesRequired is the minimum number of games before the match may
// end. An even best-of has no tiebreaker so every game must be played;
// an odd best-of ends once a majority is decided.
func (s *MatchSession) MinGamesRequired() int {
	if s.bestOf%2 == 0 {
		return s.bestOf
	}
	return s.bestOf/2 + 1
}

// FileDispute pauses the acknowledgement clock.
func (s *MatchSession) FileDispute() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.MatchStatusCheckingAck {
		return errors.New(errors.ErrCodeNoPendingResult, "no result is pending acknowledgement")
	}
	if s.isDisputed {
		return errors.New(errors.ErrCodeDisputeInProgress, "a dispute is already in progress")
	}

	now := s.now()
	s.isDisputed = true
	s.disputeStartTime = &now
	return s.syncSession()
}

// ResolveDispute closes the open dispute, folding its duration into the
// accumulated total, and resumes the clock.
func (s *MatchSession) ResolveDispute() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isDisputed {
		return errors.New(errors.ErrCodeNoDispute, "no dispute to resolve")
	}

	now := s.now()
	if s.disputeStartTime != nil {
		s.totalDisputeSeconds += int64(now.Sub(*s.disputeStartTime).Seconds())
	}
	s.isDisputed = false
	s.disputeStartTime = nil
	return s.syncSession()
}

// ForceAck credits an acknowledgement for an unresponsive team once the
// effective threshold has elapsed. Disputes must be resolved first.
func (s *MatchSession) ForceAck(team, actor string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.MatchStatusCheckingAck || len(s.games) == 0 {
		return false, errors.New(errors.ErrCodeNoPendingResult, "no game is waiting for acknowledgement")
	}
	if s.isDisputed {
		return false, errors.New(errors.ErrCodeDisputeInProgress, "resolve the dispute before force-acknowledging")
	}

	elapsed := s.effectiveElapsedLocked()
	if elapsed < ForceAckThreshold {
		return false, &ErrThresholdNotElapsed{Remaining: ceilSeconds(ForceAckThreshold - elapsed)}
	}

	if s.games[len(s.games)-1].AckFor(team) != nil {
		return false, errors.New(errors.ErrCodeDuplicateAck,
			fmt.Sprintf("%s has already acknowledged this game", team))
	}

	return s.ackGameLocked(team, fmt.Sprintf("%s (forced)", actor))
}

// UnackedGameNumbers lists games that are not fully acknowledged, for the
// warning shown at match end.
func (s *MatchSession) UnackedGameNumbers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var nums []int
	for _, g := range s.games {
		if !g.IsAcked() {
			nums = append(nums, g.Number)
		}
	}
	return nums
}

// SetLastMessageID records the transport id of the latest result
// notification so its controls can be re-bound after a restart.
func (s *MatchSession) SetLastMessageID(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastMessageID = id
	return s.syncSession()
}

// End transitions the session to its terminal state. On a persistence
// failure the in-memory status is rolled back so the caller may retry.
func (s *MatchSession) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.status
	s.status = models.MatchStatusEnded
	if err := s.syncSession(); err != nil {
		s.status = prev
		return err
	}
	return nil
}

// GameSummary is one line of the session summary projection.
type GameSummary struct {
	Number   int
	Result   string
	AckCount int
	Acked    bool
}

// MatchSummary is a read-only projection of the session for rendering.
type MatchSummary struct {
	BestOf     int
	Status     string
	IsDisputed bool
	MarshalID  int64
	StartedAt  time.Time
	Elapsed    time.Duration
	AckedTeams []string
	Games      []GameSummary
}

// Summary projects the session state for the rendering layer. It does
// not mutate anything.
func (s *MatchSession) Summary() MatchSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := MatchSummary{
		BestOf:     s.bestOf,
		Status:     s.status,
		IsDisputed: s.isDisputed,
		MarshalID:  s.marshalID,
		StartedAt:  s.startedAt,
		Elapsed:    s.effectiveElapsedLocked(),
	}

	for _, g := range s.games {
		summary.Games = append(summary.Games, GameSummary{
			Number:   g.Number,
			Result:   g.Result,
			AckCount: g.AckCount(),
			Acked:    g.IsAcked(),
		})
	}

	if s.status == models.MatchStatusCheckingAck && len(s.games) > 0 {
		for _, a := range s.games[len(s.games)-1].AckList() {
			summary.AckedTeams = append(summary.AckedTeams, a.Team)
		}
	}
	return summary
}

func ceilSeconds(d time.Duration) time.Duration {
	if rem := d % time.Second; rem > 0 {
		return d - rem + time.Second
	}
	return d
}
