package models

import (
	"testing"
)

func TestMatchSession_BeforeSave_ValidStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{
			name:    "ongoing status",
			status:  MatchStatusOngoing,
			wantErr: false,
		},
		{
			name:    "checking ack status",
			status:  MatchStatusCheckingAck,
			wantErr: false,
		},
		{
			name:    "ended status",
			status:  MatchStatusEnded,
			wantErr: false,
		},
		{
			name:    "invalid status",
			status:  "paused",
			wantErr: true,
		},
		{
			name:    "empty status",
			status:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &MatchSession{
				GuildID:   100,
				ChannelID: 200,
				MarshalID: 300,
				BestOf:    3,
				Status:    tt.status,
			}

			err := session.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchSession_BeforeSave_BestOf(t *testing.T) {
	tests := []struct {
		name    string
		bestOf  int
		wantErr bool
	}{
		{
			name:    "best of one",
			bestOf:  1,
			wantErr: false,
		},
		{
			name:    "best of five",
			bestOf:  5,
			wantErr: false,
		},
		{
			name:    "zero",
			bestOf:  0,
			wantErr: true,
		},
		{
			name:    "negative",
			bestOf:  -3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &MatchSession{
				GuildID:   100,
				ChannelID: 200,
				MarshalID: 300,
				BestOf:    tt.bestOf,
				Status:    MatchStatusOngoing,
			}

			err := session.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchGame_BeforeSave(t *testing.T) {
	game := &MatchGame{SessionID: 1, GameNumber: 0, Result: "2-1"}
	if err := game.BeforeSave(nil); err == nil {
		t.Error("BeforeSave() expected error for game_number 0, got nil")
	}

	game.GameNumber = 1
	if err := game.BeforeSave(nil); err != nil {
		t.Errorf("BeforeSave() unexpected error: %v", err)
	}
}

func TestMatchTableNames(t *testing.T) {
	if got := (MatchSession{}).TableName(); got != "match_sessions" {
		t.Errorf("MatchSession.TableName() = %q, want %q", got, "match_sessions")
	}
	if got := (MatchGame{}).TableName(); got != "match_games" {
		t.Errorf("MatchGame.TableName() = %q, want %q", got, "match_games")
	}
}

func TestMatchStatusConstants(t *testing.T) {
	if MatchStatusOngoing != "ongoing" {
		t.Errorf("MatchStatusOngoing = %q, want %q", MatchStatusOngoing, "ongoing")
	}
	if MatchStatusCheckingAck != "checking_ack" {
		t.Errorf("MatchStatusCheckingAck = %q, want %q", MatchStatusCheckingAck, "checking_ack")
	}
	if MatchStatusEnded != "ended" {
		t.Errorf("MatchStatusEnded = %q, want %q", MatchStatusEnded, "ended")
	}
}
