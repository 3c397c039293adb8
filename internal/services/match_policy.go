package services

import (
	"strconv"

	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/errors"
)

// Actor is the identity a command arrives with, as resolved by the
// transport layer.
type Actor struct {
	ID          int64
	DisplayName string
	IsAdmin     bool
	Roles       []int64
}

func (a Actor) HasRole(roleID int64) bool {
	for _, r := range a.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// ConfigStore is the read surface the policy needs for per-guild
// settings.
type ConfigStore interface {
	Get(guildID int64, key string) (string, error)
}

// MatchPolicy decides who may run privileged match operations: guild
// admins, the marshal who started the session, and holders of the
// configured marshal role. A non-zero deployment-level role id takes
// precedence over the per-guild setting.
type MatchPolicy struct {
	configs        ConfigStore
	overrideRoleID int64
}

func NewMatchPolicy(configs ConfigStore, overrideRoleID int64) *MatchPolicy {
	return &MatchPolicy{configs: configs, overrideRoleID: overrideRoleID}
}

// MarshalRoleID resolves the effective marshal role for a guild. Zero
// means no role is configured.
func (p *MatchPolicy) MarshalRoleID(guildID int64) (int64, error) {
	if p.overrideRoleID != 0 {
		return p.overrideRoleID, nil
	}

	value, err := p.configs.Get(guildID, models.ConfigKeyMarshalRole)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}

	roleID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInvalidConfig, "stored marshal role id is not numeric")
	}
	return roleID, nil
}

// CanManage reports whether the actor may run privileged operations on
// the session. A nil session covers operations that precede one, such as
// starting a match.
func (p *MatchPolicy) CanManage(guildID int64, actor Actor, session *MatchSession) (bool, error) {
	if actor.IsAdmin {
		return true, nil
	}
	if session != nil && actor.ID == session.MarshalID() {
		return true, nil
	}

	roleID, err := p.MarshalRoleID(guildID)
	if err != nil {
		return false, err
	}
	return roleID != 0 && actor.HasRole(roleID), nil
}

// Authorize is CanManage with a ready-made denial error.
func (p *MatchPolicy) Authorize(guildID int64, actor Actor, session *MatchSession) error {
	ok, err := p.CanManage(guildID, actor, session)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.ErrCodeNotAuthorized, "you are not allowed to manage this match")
	}
	return nil
}
