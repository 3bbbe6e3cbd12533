package database

import (
	"github.com/robalyx/reaper/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	action     *models.ActionModel
	escalation *models.EscalationModel
	config     *models.GuildConfigModel
	permission *models.PermissionModel
	killSwitch *models.KillSwitchModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		action:     models.NewAction(db, logger),
		escalation: models.NewEscalation(db, logger),
		config:     models.NewGuildConfig(db, logger),
		permission: models.NewPermission(db, logger),
		killSwitch: models.NewKillSwitch(db, logger),
	}
}

// Action returns the action model repository.
func (r *Repository) Action() *models.ActionModel {
	return r.action
}

// Escalation returns the strike escalation model repository.
func (r *Repository) Escalation() *models.EscalationModel {
	return r.escalation
}

// GuildConfig returns the guild settings model repository.
func (r *Repository) GuildConfig() *models.GuildConfigModel {
	return r.config
}

// Permission returns the permission grant model repository.
func (r *Repository) Permission() *models.PermissionModel {
	return r.permission
}

// KillSwitch returns the kill switch model repository.
func (r *Repository) KillSwitch() *models.KillSwitchModel {
	return r.killSwitch
}
