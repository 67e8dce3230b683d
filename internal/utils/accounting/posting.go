package accounting

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoPostingRule is returned for transaction types the engine has no rule for.
	// Callers surface it as a warning; no entries are produced.
	ErrNoPostingRule = errors.New("no posting rule for transaction type")

	// ErrUnbalancedPosting means amount != subtotal + tax on the input.
	ErrUnbalancedPosting = errors.New("posting input does not balance")

	// ErrInvalidPostingAmount covers figures the ledger cannot store as given:
	// more decimals than the stored scale, or mixed signs.
	ErrInvalidPostingAmount = errors.New("invalid posting amount")
)

// PostingInput carries the figures of one transaction needed to post it.
type PostingInput struct {
	TransactionID int64
	Date          time.Time
	Type          domain.TransactionType
	Amount        decimal.Decimal
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	Description   string
	Reference     string
}

type postingLine struct {
	account     string
	debit       decimal.Decimal
	credit      decimal.Decimal
	description string
}

// GenerateJournalEntries returns the balanced double-entry lines for a transaction.
//
// sales_invoice:    Dr cash amount, Cr revenue subtotal, Cr tax payable tax
// purchase_invoice: Dr expense subtotal, Dr tax payable tax, Cr cash amount
//
// The tax line is omitted when tax is zero. A negative amount is a credit
// note: the same lines are produced with debit and credit swapped.
func GenerateJournalEntries(in PostingInput) ([]domain.JournalEntry, error) {
	for _, d := range []decimal.Decimal{in.Amount, in.Subtotal, in.TaxAmount} {
		if !d.Equal(d.Round(domain.AmountScale)) {
			return nil, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidPostingAmount, d.String(), domain.AmountScale)
		}
	}
	if !in.Subtotal.Add(in.TaxAmount).Equal(in.Amount) {
		return nil, fmt.Errorf("%w: amount %s, subtotal %s, tax %s",
			ErrUnbalancedPosting, in.Amount.String(), in.Subtotal.String(), in.TaxAmount.String())
	}

	amount, subtotal, tax := in.Amount, in.Subtotal, in.TaxAmount
	creditNote := amount.IsNegative()
	if creditNote {
		amount, subtotal, tax = amount.Neg(), subtotal.Neg(), tax.Neg()
	}
	if subtotal.IsNegative() || tax.IsNegative() {
		return nil, fmt.Errorf("%w: mixed signs in amount %s, subtotal %s, tax %s",
			ErrInvalidPostingAmount, in.Amount.String(), in.Subtotal.String(), in.TaxAmount.String())
	}

	hasTax := tax.GreaterThan(decimal.Zero)
	var lines []postingLine

	switch in.Type {
	case domain.SalesInvoice:
		lines = append(lines,
			postingLine{account: domain.CashAccountCode, debit: amount, description: "Sale receipt - " + in.Description},
			postingLine{account: domain.RevenueAccountCode, credit: subtotal, description: "Sale - " + in.Description},
		)
		if hasTax {
			lines = append(lines, postingLine{account: domain.TaxPayableAccountCode, credit: tax, description: "Sales tax - " + in.Description})
		}
	case domain.PurchaseInvoice:
		lines = append(lines, postingLine{account: domain.ExpenseAccountCode, debit: subtotal, description: "Purchase - " + in.Description})
		if hasTax {
			lines = append(lines, postingLine{account: domain.TaxPayableAccountCode, debit: tax, description: "Purchase tax - " + in.Description})
		}
		lines = append(lines, postingLine{account: domain.CashAccountCode, credit: amount, description: "Purchase payment - " + in.Description})
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoPostingRule, in.Type)
	}

	if creditNote {
		for i := range lines {
			lines[i].debit, lines[i].credit = lines[i].credit, lines[i].debit
			lines[i].description = "Credit note - " + lines[i].description
		}
	}

	entries := make([]domain.JournalEntry, 0, len(lines))
	for i, l := range lines {
		entry := domain.JournalEntry{
			EntryDate:     in.Date,
			TransactionID: in.TransactionID,
			AccountCode:   l.account,
			Debit:         l.debit,
			Credit:        l.credit,
			Description:   l.description,
		}
		number := fmt.Sprintf("JE-%d-%d", in.TransactionID, i+1)
		entry.EntryNumber = &number
		if in.Reference != "" {
			ref := in.Reference
			entry.Reference = &ref
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReverseEntries builds the offsetting entries for previously posted ones.
// Each reversal swaps debit and credit and points back at the original entry.
func ReverseEntries(original []domain.JournalEntry, date time.Time, reason string) []domain.JournalEntry {
	reversals := make([]domain.JournalEntry, 0, len(original))
	for i, e := range original {
		origID := e.ID
		number := fmt.Sprintf("REV-%d-%d", e.TransactionID, i+1)
		description := "Reversal - " + e.Description
		if reason != "" {
			description += " (" + reason + ")"
		}
		reversals = append(reversals, domain.JournalEntry{
			EntryDate:       date,
			EntryNumber:     &number,
			TransactionID:   e.TransactionID,
			AccountCode:     e.AccountCode,
			Debit:           e.Credit,
			Credit:          e.Debit,
			Description:     description,
			Reference:       e.Reference,
			ReversesEntryID: &origID,
		})
	}
	return reversals
}
