package usecase

import (
	"context"

	"gorm.io/gorm"

	"github.com/akbar-dignity/custom-whatsapp-chatb/core/config"
	domainHealth "github.com/akbar-dignity/custom-whatsapp-chatb/domains/health"
	domainRules "github.com/akbar-dignity/custom-whatsapp-chatb/domains/rules"
	domainSession "github.com/akbar-dignity/custom-whatsapp-chatb/domains/session"
)

type healthService struct {
	db       *gorm.DB
	rules    domainRules.IRulesUsecase
	sessions domainSession.ISessionStore
}

func NewHealthService(db *gorm.DB, rules domainRules.IRulesUsecase, sessions domainSession.ISessionStore) domainHealth.IHealthUsecase {
	return &healthService{db: db, rules: rules, sessions: sessions}
}

func (s *healthService) Check(ctx context.Context) domainHealth.Status {
	status := domainHealth.Status{Database: "ok"}
	if config.Global != nil {
		status.Version = config.Global.App.Version
	}

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status.Database = "unreachable"
	}

	table := s.rules.Snapshot()
	status.MenuButtons = len(table.Menu.Buttons)
	status.RulesLoaded = status.MenuButtons > 0 || len(table.Categories) > 0 || len(table.Products) > 0

	if count, err := s.sessions.Count(ctx); err == nil {
		status.LiveSessions = count
	}
	return status
}
