package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset       AccountType = "ASSET"
	Liability   AccountType = "LIABILITY"
	Equity      AccountType = "EQUITY"
	Revenue     AccountType = "REVENUE"
	CostOfSales AccountType = "COST_OF_SALES"
	Expense     AccountType = "EXPENSE"
)

// Codes of the accounts the posting engine relies on.
const (
	CashAccountCode       = "1105"
	TaxPayableAccountCode = "2408"
	RevenueAccountCode    = "4135"
	ExpenseAccountCode    = "6205"
)

// Account represents a ledger account identified by its chart-of-accounts code.
type Account struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	IsActive    bool            `json:"isActive"`
}

// ClassifyAccountCode derives the account type from the leading digit of code.
func ClassifyAccountCode(code string) (AccountType, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("account code is empty")
	}
	switch code[0] {
	case '1':
		return Asset, nil
	case '2':
		return Liability, nil
	case '3':
		return Equity, nil
	case '4':
		return Revenue, nil
	case '5':
		return CostOfSales, nil
	case '6':
		return Expense, nil
	}
	return "", fmt.Errorf("account code %q has no class for leading digit %q", code, code[0])
}

// IsDebitNormal reports whether balances of this type grow with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == CostOfSales || t == Expense
}

// DefaultAccounts returns the accounts that must exist before anything is posted.
func DefaultAccounts(currency string) []Account {
	return []Account{
		{Code: CashAccountCode, Name: "Cash", AccountType: Asset, Currency: currency, IsActive: true},
		{Code: RevenueAccountCode, Name: "Sales revenue", AccountType: Revenue, Currency: currency, IsActive: true},
		{Code: TaxPayableAccountCode, Name: "VAT payable", AccountType: Liability, Currency: currency, IsActive: true},
		{Code: ExpenseAccountCode, Name: "Operating expenses", AccountType: Expense, Currency: currency, IsActive: true},
	}
}

// DefaultAccountName returns the name of a default account, or "Account <code>".
func DefaultAccountName(code string) string {
	for _, acc := range DefaultAccounts("") {
		if acc.Code == code {
			return acc.Name
		}
	}
	return "Account " + code
}
