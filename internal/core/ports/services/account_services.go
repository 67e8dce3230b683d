package services

import (
	"context"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc manages the chart of accounts.
type AccountWriterSvc interface {
	// EnsureAccount creates the account if its code is absent and returns the stored
	// account either way. An empty accountType is derived from the code.
	EnsureAccount(ctx context.Context, code, name string, accountType domain.AccountType) (*domain.Account, error)

	// EnsureDefaultAccounts guarantees the accounts used by the posting engine exist.
	EnsureDefaultAccounts(ctx context.Context) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
