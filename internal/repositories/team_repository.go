package repositories

import (
	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/errors"
	"gorm.io/gorm"
)

// TeamRepository stores teams, roster players and verified members. It
// backs the team-membership resolver used by the acknowledgement paths.
type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// UpsertTeam returns the existing team for (guild, abbrev) or creates it.
func (r *TeamRepository) UpsertTeam(guildID int64, name, abbrev string) (*models.Team, error) {
	var team models.Team
	result := r.db.Where("guild_id = ? AND abbrev = ?", guildID, abbrev).First(&team)

	if result.Error == gorm.ErrRecordNotFound {
		team = models.Team{GuildID: guildID, Name: name, Abbrev: abbrev}
		if err := r.db.Create(&team).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create team")
		}
		return &team, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to look up team")
	}

	if team.Name != name {
		if err := r.db.Model(&team).Update("name", name).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to update team name")
		}
	}
	return &team, nil
}

func (r *TeamRepository) AddRosterPlayer(teamID uint, ign string) error {
	var existing models.RosterPlayer
	result := r.db.Where("team_id = ? AND ign = ?", teamID, ign).First(&existing)
	if result.Error == nil {
		return nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to look up roster player")
	}

	player := models.RosterPlayer{TeamID: teamID, IGN: ign}
	if err := r.db.Create(&player).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add roster player")
	}
	return nil
}

// FindRosterPlayer resolves an in-game name to its roster entry and team
// within a guild. Returns NOT_FOUND when the IGN is not on any roster.
func (r *TeamRepository) FindRosterPlayer(guildID int64, ign string) (*models.RosterPlayer, *models.Team, error) {
	var player models.RosterPlayer
	result := r.db.Table("roster_players").
		Select("roster_players.*").
		Joins("JOIN teams ON teams.id = roster_players.team_id").
		Where("teams.guild_id = ? AND roster_players.ign = ?", guildID, ign).
		First(&player)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil, errors.New(errors.ErrCodeNotFound, "player not found on any roster")
	}
	if result.Error != nil {
		return nil, nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to look up roster player")
	}

	var team models.Team
	if err := r.db.First(&team, player.TeamID).Error; err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load team")
	}
	return &player, &team, nil
}

// Verify binds a chat user to a roster identity, replacing any previous
// binding for the same user.
func (r *TeamRepository) Verify(guildID, userID int64, teamID uint, ign string) error {
	var existing models.VerifiedUser
	result := r.db.Where("guild_id = ? AND user_id = ?", guildID, userID).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		verified := models.VerifiedUser{GuildID: guildID, UserID: userID, TeamID: teamID, IGN: ign}
		if err := r.db.Create(&verified).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to verify user")
		}
		return nil
	}
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to look up verified user")
	}

	updates := map[string]interface{}{"team_id": teamID, "ign": ign}
	if err := r.db.Model(&existing).Updates(updates).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update verification")
	}
	return nil
}

// MemberTeam returns the team of a verified member, or nil when the user
// is not verified in this guild.
func (r *TeamRepository) MemberTeam(guildID, userID int64) (*models.Team, error) {
	var verified models.VerifiedUser
	result := r.db.Where("guild_id = ? AND user_id = ?", guildID, userID).
		Preload("Team").
		First(&verified)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to look up member team")
	}
	return &verified.Team, nil
}

// TeamByAbbrev resolves a team abbreviation within a guild.
func (r *TeamRepository) TeamByAbbrev(guildID int64, abbrev string) (*models.Team, error) {
	var team models.Team
	result := r.db.Where("guild_id = ? AND abbrev = ?", guildID, abbrev).First(&team)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown team")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to look up team")
	}
	return &team, nil
}

func (r *TeamRepository) ListTeams(guildID int64) ([]models.Team, error) {
	var teams []models.Team
	result := r.db.Where("guild_id = ?", guildID).Order("abbrev ASC").Find(&teams)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list teams")
	}
	return teams, nil
}
