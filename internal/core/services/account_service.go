package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_assistant/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	currency    string
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountCurrency sets the currency of accounts created by the service.
func WithAccountCurrency(currency string) AccountServiceOption {
	return func(s *accountService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepository, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		currency:    DefaultCurrency,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) EnsureAccount(ctx context.Context, code, name string, accountType domain.AccountType) (*domain.Account, error) {
	code = strings.TrimSpace(code)
	derived, err := domain.ClassifyAccountCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	switch accountType {
	case "":
		accountType = derived
	case derived:
	default:
		return nil, fmt.Errorf("%w: account %s is %s by its code, not %s", apperrors.ErrValidation, code, derived, accountType)
	}
	if name = strings.TrimSpace(name); name == "" {
		name = domain.DefaultAccountName(code)
	}

	created, err := s.accountRepo.EnsureAccount(ctx, domain.Account{
		Code:        code,
		Name:        name,
		AccountType: accountType,
		Currency:    s.currency,
		IsActive:    true,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to ensure account", slog.String("code", code))
		return nil, err
	}
	if created {
		s.LogInfo(ctx, "Account created", slog.String("code", code), slog.String("account_type", string(accountType)))
	}

	return s.accountRepo.FindAccountByCode(ctx, code)
}

func (s *accountService) EnsureDefaultAccounts(ctx context.Context) error {
	for _, acc := range domain.DefaultAccounts(s.currency) {
		if _, err := s.accountRepo.EnsureAccount(ctx, acc); err != nil {
			s.LogError(ctx, err, "Failed to ensure default account", slog.String("code", acc.Code))
			return fmt.Errorf("failed to ensure account %s: %w", acc.Code, err)
		}
	}
	return nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}
