package services

import (
	"fmt"
	"testing"

	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/errors"
)

type fakeConfigStore struct {
	values map[string]string
}

func (f *fakeConfigStore) Get(guildID int64, key string) (string, error) {
	return f.values[fmt.Sprintf("%d/%s", guildID, key)], nil
}

func TestMatchPolicy_CanManage(t *testing.T) {
	configs := &fakeConfigStore{values: map[string]string{
		"100/" + models.ConfigKeyMarshalRole: "555",
	}}

	store := newMemStore()
	registry := NewMatchRegistry(store)
	session, err := registry.Start(100, 200, 300, 3)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	tests := []struct {
		name    string
		policy  *MatchPolicy
		actor   Actor
		session *MatchSession
		want    bool
	}{
		{
			name:    "admin always allowed",
			policy:  NewMatchPolicy(configs, 0),
			actor:   Actor{ID: 1, IsAdmin: true},
			session: session,
			want:    true,
		},
		{
			name:    "session marshal allowed",
			policy:  NewMatchPolicy(configs, 0),
			actor:   Actor{ID: 300},
			session: session,
			want:    true,
		},
		{
			name:    "configured role holder allowed",
			policy:  NewMatchPolicy(configs, 0),
			actor:   Actor{ID: 2, Roles: []int64{555}},
			session: session,
			want:    true,
		},
		{
			name:    "role holder allowed without a session",
			policy:  NewMatchPolicy(configs, 0),
			actor:   Actor{ID: 2, Roles: []int64{555}},
			session: nil,
			want:    true,
		},
		{
			name:    "plain member denied",
			policy:  NewMatchPolicy(configs, 0),
			actor:   Actor{ID: 3, Roles: []int64{7}},
			session: session,
			want:    false,
		},
		{
			name:    "override role takes precedence",
			policy:  NewMatchPolicy(configs, 999),
			actor:   Actor{ID: 4, Roles: []int64{999}},
			session: session,
			want:    true,
		},
		{
			name:    "configured role ignored when overridden",
			policy:  NewMatchPolicy(configs, 999),
			actor:   Actor{ID: 5, Roles: []int64{555}},
			session: session,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.policy.CanManage(100, tt.actor, tt.session)
			if err != nil {
				t.Fatalf("CanManage() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CanManage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchPolicy_MarshalRoleID(t *testing.T) {
	t.Run("unset returns zero", func(t *testing.T) {
		policy := NewMatchPolicy(&fakeConfigStore{values: map[string]string{}}, 0)
		roleID, err := policy.MarshalRoleID(100)
		if err != nil {
			t.Fatalf("MarshalRoleID() error = %v", err)
		}
		if roleID != 0 {
			t.Errorf("MarshalRoleID() = %d, want 0", roleID)
		}
	})

	t.Run("malformed value rejected", func(t *testing.T) {
		policy := NewMatchPolicy(&fakeConfigStore{values: map[string]string{
			"100/" + models.ConfigKeyMarshalRole: "not-a-number",
		}}, 0)
		if _, err := policy.MarshalRoleID(100); !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("MarshalRoleID() error = %v, want code %s", err, errors.ErrCodeInvalidConfig)
		}
	})
}

func TestMatchPolicy_Authorize(t *testing.T) {
	policy := NewMatchPolicy(&fakeConfigStore{values: map[string]string{}}, 0)

	if err := policy.Authorize(100, Actor{ID: 9}, nil); !errors.HasCode(err, errors.ErrCodeNotAuthorized) {
		t.Errorf("Authorize() error = %v, want code %s", err, errors.ErrCodeNotAuthorized)
	}
	if err := policy.Authorize(100, Actor{ID: 9, IsAdmin: true}, nil); err != nil {
		t.Errorf("Authorize() for admin error = %v", err)
	}
}
