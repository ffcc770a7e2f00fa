package usecase

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	domainRules "github.com/akbar-dignity/custom-whatsapp-chatb/domains/rules"
	pkgError "github.com/akbar-dignity/custom-whatsapp-chatb/pkg/error"
	"github.com/akbar-dignity/custom-whatsapp-chatb/repository"
)

type snapshotHolder struct {
	table *domainRules.Table
	raw   []byte
}

type rulesService struct {
	repo    *repository.RulesGormRepository
	current atomic.Pointer[snapshotHolder]
}

// NewRulesService loads the persisted rules, seeding them from seedPath on
// first start when the store is empty. A missing or malformed rules blob is
// never fatal: the service starts with an empty table and every button
// lookup degrades to an invalid-selection reply.
func NewRulesService(repo *repository.RulesGormRepository, seedPath string) domainRules.IRulesUsecase {
	s := &rulesService{repo: repo}

	ctx := context.Background()
	raw, err := repo.Get(ctx)
	if err != nil {
		logrus.WithError(err).Error("[RULES] failed to load persisted rules, starting empty")
	}
	if raw == nil && seedPath != "" {
		if seed, readErr := os.ReadFile(seedPath); readErr == nil {
			raw = seed
			if err := repo.Replace(ctx, raw); err != nil {
				logrus.WithError(err).Error("[RULES] failed to persist seeded rules")
			} else {
				logrus.Infof("[RULES] seeded rules from %s", seedPath)
			}
		} else {
			logrus.Warnf("[RULES] no rules found, starting empty (%v)", readErr)
		}
	}

	s.swap(raw)
	return s
}

func (s *rulesService) swap(raw []byte) {
	table, err := domainRules.ParseTable(raw)
	if err != nil {
		logrus.WithError(err).Warn("[RULES] rules blob is not a JSON object, using empty table")
	}
	s.current.Store(&snapshotHolder{table: table, raw: raw})
}

func (s *rulesService) Snapshot() *domainRules.Table {
	return s.current.Load().table
}

func (s *rulesService) Raw() []byte {
	return s.current.Load().raw
}

// Replace persists and swaps in a whole new table. The swap is atomic: a
// dispatch in flight keeps the snapshot it started with.
func (s *rulesService) Replace(raw []byte) error {
	if _, err := domainRules.ParseTable(raw); err != nil {
		return pkgError.ValidationError("rules must be a JSON object: " + err.Error())
	}
	if err := s.repo.Replace(context.Background(), raw); err != nil {
		return err
	}
	s.swap(raw)
	return nil
}
