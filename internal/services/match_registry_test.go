package services

import (
	"testing"
	"time"

	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/errors"
)

func TestMatchRegistry_StartOncePerChannel(t *testing.T) {
	store := newMemStore()
	registry := NewMatchRegistry(store)

	if _, err := registry.Start(100, 200, 300, 3); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := registry.Start(100, 200, 301, 5); !errors.HasCode(err, errors.ErrCodeAlreadyActive) {
		t.Errorf("second Start() error = %v, want code %s", err, errors.ErrCodeAlreadyActive)
	}

	// A different channel is independent.
	if _, err := registry.Start(100, 201, 300, 3); err != nil {
		t.Errorf("Start() in second channel error = %v", err)
	}
	if registry.ActiveCount() != 2 {
		t.Errorf("ActiveCount() = %d, want 2", registry.ActiveCount())
	}
}

func TestMatchRegistry_StartValidatesBestOf(t *testing.T) {
	registry := NewMatchRegistry(newMemStore())

	if _, err := registry.Start(100, 200, 300, 0); !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Start(best-of 0) error = %v, want code %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestMatchRegistry_EndRemovesSession(t *testing.T) {
	registry := NewMatchRegistry(newMemStore())

	if _, err := registry.End(200); !errors.HasCode(err, errors.ErrCodeNoActiveSession) {
		t.Errorf("End() without session error = %v, want code %s", err, errors.ErrCodeNoActiveSession)
	}

	if _, err := registry.Start(100, 200, 300, 3); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	session, err := registry.End(200)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if session.Status() != models.MatchStatusEnded {
		t.Errorf("status = %q, want %q", session.Status(), models.MatchStatusEnded)
	}
	if registry.Get(200) != nil {
		t.Error("ended session still registered")
	}

	// The channel is free again.
	if _, err := registry.Start(100, 200, 300, 3); err != nil {
		t.Errorf("Start() after End() error = %v", err)
	}
}

func TestMatchRegistry_EndKeepsSessionOnStoreFailure(t *testing.T) {
	store := newMemStore()
	registry := NewMatchRegistry(store)

	if _, err := registry.Start(100, 200, 300, 3); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	store.failUpdate = true
	if _, err := registry.End(200); err == nil {
		t.Fatal("End() succeeded despite store failure")
	}
	if registry.Get(200) == nil {
		t.Error("session dropped from registry after failed End()")
	}
}

func TestMatchRegistry_Restore(t *testing.T) {
	store := newMemStore()
	ackStart := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	disputeStart := ackStart.Add(90 * time.Second)
	ackAt := ackStart.Add(20 * time.Second)

	store.active = []models.MatchSession{
		{
			ID:                  7,
			GuildID:             100,
			ChannelID:           200,
			MarshalID:           300,
			BestOf:              5,
			Status:              models.MatchStatusCheckingAck,
			IsDisputed:          true,
			AckStartTime:        &ackStart,
			DisputeStartTime:    &disputeStart,
			TotalDisputeSeconds: 30,
			LastMessageID:       4242,
			StartedAt:           ackStart.Add(-time.Hour),
			Games: []models.MatchGame{
				{
					ID:           1,
					SessionID:    7,
					GameNumber:   1,
					Result:       "TSM 1-0 C9",
					AckTeam1:     "TSM",
					AckTeam1User: "alice",
					AckTeam1At:   &ackAt,
					AckTeam2:     "C9",
					AckTeam2User: "bob",
					AckTeam2At:   &ackAt,
				},
				{
					ID:           2,
					SessionID:    7,
					GameNumber:   2,
					Result:       "C9 1-1 TSM",
					AckTeam1:     "TSM",
					AckTeam1User: "alice",
					AckTeam1At:   &ackAt,
				},
			},
		},
	}

	registry := NewMatchRegistry(store)
	clock := &fakeClock{t: disputeStart.Add(time.Hour)}
	registry.SetClock(clock.Now)

	restored, err := registry.Restore()
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if len(restored) != 1 {
		t.Fatalf("restored %d sessions, want 1", len(restored))
	}

	session := registry.Get(200)
	if session == nil {
		t.Fatal("restored session not registered")
	}
	if session.Status() != models.MatchStatusCheckingAck {
		t.Errorf("status = %q, want %q", session.Status(), models.MatchStatusCheckingAck)
	}
	if !session.IsDisputed() {
		t.Error("dispute flag not restored")
	}
	if session.LastMessageID() != 4242 {
		t.Errorf("LastMessageID() = %d, want 4242", session.LastMessageID())
	}
	if session.GameCount() != 2 {
		t.Errorf("GameCount() = %d, want 2", session.GameCount())
	}
	if session.IsCurrentGameAcked() {
		t.Error("half-acked game restored as fully acknowledged")
	}

	current := session.CurrentGame()
	if current.AckFor("TSM") == nil || current.AckFor("TSM").User != "alice" {
		t.Errorf("restored ack = %+v, want TSM by alice", current.AckFor("TSM"))
	}

	// The clock stayed frozen for the whole open dispute: 90s ran before
	// it opened, minus the 30s already accumulated from earlier disputes.
	if got := session.EffectiveElapsed(); got != 60*time.Second {
		t.Errorf("EffectiveElapsed() = %v, want 60s", got)
	}
}
