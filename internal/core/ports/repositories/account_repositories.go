package repositories

import (
	"context"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for accounts
type AccountReader interface {
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for accounts
type AccountWriter interface {
	// EnsureAccount inserts the account unless its code exists; returns whether it was created.
	EnsureAccount(ctx context.Context, account domain.Account) (bool, error)
	EnsureAccountsInTx(ctx context.Context, tx pgx.Tx, accounts []domain.Account) error
	// UpdateAccountBalancesInTx adds the signed deltas to the stored balances.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal) error
}

// AccountRepository combines all account-related repository operations
type AccountRepository interface {
	TransactionManager
	AccountReader
	AccountWriter
}
