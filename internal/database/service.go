package database

import (
	"github.com/robalyx/reaper/internal/database/service"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	config     *service.ConfigService
	escalation *service.EscalationService
	permission *service.PermissionService
}

// NewService creates a new service instance with all services.
func NewService(db *bun.DB, repository *Repository, opts Options, logger *zap.Logger) *Service {
	return &Service{
		config: service.NewConfig(
			repository.GuildConfig(), repository.KillSwitch(), opts.CacheClient, opts.CacheTTL, logger,
		),
		escalation: service.NewEscalation(db, repository.Escalation(), logger),
		permission: service.NewPermission(repository.Permission(), logger),
	}
}

// Config returns the cached guild settings service.
func (s *Service) Config() *service.ConfigService {
	return s.config
}

// Escalation returns the strike escalation service.
func (s *Service) Escalation() *service.EscalationService {
	return s.escalation
}

// Permission returns the permission grant service.
func (s *Service) Permission() *service.PermissionService {
	return s.permission
}
