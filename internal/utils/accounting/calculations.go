package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount returns the effect of a journal entry on the balance of
// an account of the given type.
// DEBIT to ASSET/COST_OF_SALES/EXPENSE -> Positive (+)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func CalculateSignedAmount(entry domain.JournalEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	net := entry.Debit.Sub(entry.Credit)
	switch accountType {
	case domain.Asset, domain.CostOfSales, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account %s", accountType, entry.AccountCode)
	}
}

// ValidateEntriesBalance checks that the debits of a posting equal its credits.
func ValidateEntriesBalance(entries []domain.JournalEntry) error {
	if len(entries) < 2 {
		return fmt.Errorf("posting must have at least two entries")
	}

	debits, credits := TotalDebitsCredits(entries)
	if !debits.Equal(credits) {
		return fmt.Errorf("journal entries do not balance: debits %s, credits %s", debits.String(), credits.String())
	}
	for _, e := range entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return fmt.Errorf("entry for account %s has a negative side", e.AccountCode)
		}
		if !e.Debit.IsZero() && !e.Credit.IsZero() {
			return fmt.Errorf("entry for account %s has both debit and credit", e.AccountCode)
		}
	}
	return nil
}

// TotalDebitsCredits sums both sides of a set of entries.
func TotalDebitsCredits(entries []domain.JournalEntry) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	return debits, credits
}

// BalanceChanges accumulates the signed balance delta per account code.
// Account types are derived from the code's leading digit.
func BalanceChanges(entries []domain.JournalEntry) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal)
	for _, e := range entries {
		accountType, err := domain.ClassifyAccountCode(e.AccountCode)
		if err != nil {
			return nil, err
		}
		signed, err := CalculateSignedAmount(e, accountType)
		if err != nil {
			return nil, err
		}
		changes[e.AccountCode] = changes[e.AccountCode].Add(signed)
	}
	return changes, nil
}
