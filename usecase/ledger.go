package usecase

import (
	"context"
	"strings"

	domainLedger "github.com/akbar-dignity/custom-whatsapp-chatb/domains/ledger"
	pkgError "github.com/akbar-dignity/custom-whatsapp-chatb/pkg/error"
	"github.com/akbar-dignity/custom-whatsapp-chatb/repository"
	"github.com/akbar-dignity/custom-whatsapp-chatb/validations"
)

type ledgerService struct {
	repo *repository.LedgerGormRepository
}

func NewLedgerService(repo *repository.LedgerGormRepository) domainLedger.ILedgerUsecase {
	return &ledgerService{repo: repo}
}

func (s *ledgerService) FindIdentity(ctx context.Context, claim string) (*domainLedger.Identity, error) {
	return s.repo.FindByName(ctx, claim)
}

func (s *ledgerService) LatestBalance(ctx context.Context, identityKey string) (*domainLedger.Balance, error) {
	if identityKey == "" {
		return nil, nil
	}
	return s.repo.LatestBalance(ctx, identityKey)
}

func (s *ledgerService) CreateAccount(ctx context.Context, request domainLedger.CreateAccountRequest) (domainLedger.Identity, error) {
	if err := validations.ValidateCreateAccount(ctx, request); err != nil {
		return domainLedger.Identity{}, err
	}

	identity, err := s.repo.UpsertAccount(ctx, strings.TrimSpace(request.Key), strings.TrimSpace(request.Name))
	if err != nil {
		return domainLedger.Identity{}, err
	}
	return *identity, nil
}

func (s *ledgerService) AddBalance(ctx context.Context, request domainLedger.AddBalanceRequest) (domainLedger.Balance, error) {
	if err := validations.ValidateAddBalance(ctx, request); err != nil {
		return domainLedger.Balance{}, err
	}

	exists, err := s.repo.AccountExists(ctx, request.AccountKey)
	if err != nil {
		return domainLedger.Balance{}, err
	}
	if !exists {
		return domainLedger.Balance{}, pkgError.NotFoundError("account not found: " + request.AccountKey)
	}

	balance, err := s.repo.AddBalance(ctx, request.AccountKey, request.Amount, request.DueDate)
	if err != nil {
		return domainLedger.Balance{}, err
	}
	return *balance, nil
}

func (s *ledgerService) ListAccounts(ctx context.Context) ([]domainLedger.Identity, error) {
	return s.repo.ListAccounts(ctx)
}
