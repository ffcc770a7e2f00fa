package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainLedger "github.com/akbar-dignity/custom-whatsapp-chatb/domains/ledger"
)

type accountModel struct {
	Key       string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	NameLower string    `gorm:"uniqueIndex:idx_accounts_name_lower;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (accountModel) TableName() string {
	return "accounts"
}

type balanceModel struct {
	ID         string    `gorm:"primaryKey"`
	AccountKey string    `gorm:"index:idx_balances_account;not null"`
	Amount     float64   `gorm:"not null"`
	DueDate    string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"index:idx_balances_created;not null"`
}

func (balanceModel) TableName() string {
	return "balances"
}

// LedgerGormRepository backs the identity directory and balance records.
type LedgerGormRepository struct {
	db *gorm.DB
}

func NewLedgerGormRepository(db *gorm.DB) *LedgerGormRepository {
	return &LedgerGormRepository{db: db}
}

func (r *LedgerGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&accountModel{}, &balanceModel{})
}

// FindByName matches a claim against the directory. Matching is a
// case-insensitive exact comparison; (nil, nil) means no match.
func (r *LedgerGormRepository) FindByName(ctx context.Context, claim string) (*domainLedger.Identity, error) {
	claim = strings.ToLower(strings.TrimSpace(claim))
	if claim == "" {
		return nil, nil
	}

	var m accountModel
	if err := r.db.WithContext(ctx).Where("name_lower = ?", claim).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &domainLedger.Identity{Key: m.Key, Name: m.Name, CreatedAt: m.CreatedAt}, nil
}

// LatestBalance returns the newest balance record for an account, or
// (nil, nil) when the account has none.
func (r *LedgerGormRepository) LatestBalance(ctx context.Context, accountKey string) (*domainLedger.Balance, error) {
	var m balanceModel
	err := r.db.WithContext(ctx).
		Where("account_key = ?", accountKey).
		Order("created_at desc").
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &domainLedger.Balance{
		ID:         m.ID,
		AccountKey: m.AccountKey,
		Amount:     m.Amount,
		DueDate:    m.DueDate,
		CreatedAt:  m.CreatedAt,
	}, nil
}

func (r *LedgerGormRepository) UpsertAccount(ctx context.Context, key, name string) (*domainLedger.Identity, error) {
	m := accountModel{
		Key:       key,
		Name:      name,
		NameLower: strings.ToLower(strings.TrimSpace(name)),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, err
	}
	return &domainLedger.Identity{Key: m.Key, Name: m.Name, CreatedAt: m.CreatedAt}, nil
}

func (r *LedgerGormRepository) AddBalance(ctx context.Context, accountKey string, amount float64, dueDate string) (*domainLedger.Balance, error) {
	m := balanceModel{
		ID:         uuid.New().String(),
		AccountKey: accountKey,
		Amount:     amount,
		DueDate:    dueDate,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &domainLedger.Balance{
		ID:         m.ID,
		AccountKey: m.AccountKey,
		Amount:     m.Amount,
		DueDate:    m.DueDate,
		CreatedAt:  m.CreatedAt,
	}, nil
}

func (r *LedgerGormRepository) ListAccounts(ctx context.Context) ([]domainLedger.Identity, error) {
	var models []accountModel
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&models).Error; err != nil {
		return nil, err
	}

	accounts := make([]domainLedger.Identity, 0, len(models))
	for _, m := range models {
		accounts = append(accounts, domainLedger.Identity{Key: m.Key, Name: m.Name, CreatedAt: m.CreatedAt})
	}
	return accounts, nil
}

// AccountExists reports whether an account key is registered.
func (r *LedgerGormRepository) AccountExists(ctx context.Context, key string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&accountModel{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
