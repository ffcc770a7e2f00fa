package ledger

import (
	"context"
	"time"
)

// Identity is a registered account in the directory. Key is the stable
// ledger key bound into the session on verification; Name is the canonical
// display name matched against identity claims.
type Identity struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Balance is one outstanding balance record for an identity.
type Balance struct {
	ID         string    `json:"id"`
	AccountKey string    `json:"account_key"`
	Amount     float64   `json:"amount"`
	DueDate    string    `json:"due_date"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateAccountRequest struct {
	Key  string `json:"key" form:"key"`
	Name string `json:"name" form:"name"`
}

type AddBalanceRequest struct {
	AccountKey string  `json:"account_key" uri:"account_key"`
	Amount     float64 `json:"amount" form:"amount"`
	DueDate    string  `json:"due_date" form:"due_date"`
}

type ILedgerUsecase interface {
	// FindIdentity matches a free-text claim against the directory using a
	// case-insensitive exact comparison. Returns (nil, nil) on no match.
	FindIdentity(ctx context.Context, claim string) (*Identity, error)
	// LatestBalance returns the most recent balance record for an identity,
	// or (nil, nil) when none exists.
	LatestBalance(ctx context.Context, identityKey string) (*Balance, error)

	CreateAccount(ctx context.Context, request CreateAccountRequest) (Identity, error)
	AddBalance(ctx context.Context, request AddBalanceRequest) (Balance, error)
	ListAccounts(ctx context.Context) ([]Identity, error)
}
