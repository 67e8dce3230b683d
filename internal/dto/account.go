package dto

import (
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EnsureAccountRequest creates an account if its code is not yet in the chart.
type EnsureAccountRequest struct {
	Code        string             `json:"code" binding:"required,numeric,min=4,max=10"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE COST_OF_SALES EXPENSE"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	ID          int64              `json:"id"`
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType"`
	Balance     decimal.Decimal    `json:"balance"`
	Currency    string             `json:"currency"`
	IsActive    bool               `json:"isActive"`
}

// ListAccountsResponse wraps the chart of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          acc.ID,
		Code:        acc.Code,
		Name:        acc.Name,
		AccountType: acc.AccountType,
		Balance:     acc.Balance,
		Currency:    acc.Currency,
		IsActive:    acc.IsActive,
	}
}

// ToListAccountsResponse converts a slice of domain.Account.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}
