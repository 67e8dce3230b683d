package accounting

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type side struct {
	account string
	debit   string
	credit  string
}

func sides(entries []domain.JournalEntry) []side {
	out := make([]side, 0, len(entries))
	for _, e := range entries {
		out = append(out, side{account: e.AccountCode, debit: e.Debit.String(), credit: e.Credit.String()})
	}
	return out
}

func TestGenerateJournalEntries(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   PostingInput
		want []side
	}{
		{
			name: "sales invoice with tax",
			in:   PostingInput{TransactionID: 1, Date: date, Type: domain.SalesInvoice, Amount: dec("595000"), Subtotal: dec("500000"), TaxAmount: dec("95000"), Description: "FAC-001"},
			want: []side{
				{account: "1105", debit: "595000", credit: "0"},
				{account: "4135", debit: "0", credit: "500000"},
				{account: "2408", debit: "0", credit: "95000"},
			},
		},
		{
			name: "purchase invoice with tax",
			in:   PostingInput{TransactionID: 2, Date: date, Type: domain.PurchaseInvoice, Amount: dec("357000"), Subtotal: dec("300000"), TaxAmount: dec("57000"), Description: "COMP-001"},
			want: []side{
				{account: "6205", debit: "300000", credit: "0"},
				{account: "2408", debit: "57000", credit: "0"},
				{account: "1105", debit: "0", credit: "357000"},
			},
		},
		{
			name: "sales invoice without tax omits tax line",
			in:   PostingInput{TransactionID: 3, Date: date, Type: domain.SalesInvoice, Amount: dec("1000"), Subtotal: dec("1000"), TaxAmount: decimal.Zero},
			want: []side{
				{account: "1105", debit: "1000", credit: "0"},
				{account: "4135", debit: "0", credit: "1000"},
			},
		},
		{
			name: "purchase invoice without tax omits tax line",
			in:   PostingInput{TransactionID: 4, Date: date, Type: domain.PurchaseInvoice, Amount: dec("250.50"), Subtotal: dec("250.50"), TaxAmount: decimal.Zero},
			want: []side{
				{account: "6205", debit: "250.5", credit: "0"},
				{account: "1105", debit: "0", credit: "250.5"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := GenerateJournalEntries(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sides(entries))

			require.NoError(t, ValidateEntriesBalance(entries))
			debits, credits := TotalDebitsCredits(entries)
			assert.True(t, debits.Equal(tt.in.Amount), "debits %s", debits)
			assert.True(t, credits.Equal(tt.in.Amount), "credits %s", credits)

			for _, e := range entries {
				assert.Equal(t, tt.in.TransactionID, e.TransactionID)
				assert.Equal(t, date, e.EntryDate)
				require.NotNil(t, e.EntryNumber)
			}
		})
	}
}

func TestGenerateJournalEntries_NoTaxLineWhenTaxIsZero(t *testing.T) {
	for _, typ := range []domain.TransactionType{domain.SalesInvoice, domain.PurchaseInvoice} {
		entries, err := GenerateJournalEntries(PostingInput{Type: typ, Amount: dec("10"), Subtotal: dec("10"), TaxAmount: dec("0")})
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotEqual(t, domain.TaxPayableAccountCode, e.AccountCode)
		}
	}
}

func TestGenerateJournalEntries_UnknownType(t *testing.T) {
	entries, err := GenerateJournalEntries(PostingInput{Type: "credit_note", Amount: dec("10"), Subtotal: dec("10")})

	assert.ErrorIs(t, err, ErrNoPostingRule)
	assert.Empty(t, entries)
}

func TestGenerateJournalEntries_Unbalanced(t *testing.T) {
	_, err := GenerateJournalEntries(PostingInput{Type: domain.SalesInvoice, Amount: dec("100"), Subtotal: dec("80"), TaxAmount: dec("19")})

	assert.ErrorIs(t, err, ErrUnbalancedPosting)
}

func TestGenerateJournalEntries_CreditNoteSwapsSides(t *testing.T) {
	entries, err := GenerateJournalEntries(PostingInput{TransactionID: 5, Type: domain.PurchaseInvoice, Amount: dec("-357000"), Subtotal: dec("-300000"), TaxAmount: dec("-57000"), Description: "NC-7"})
	require.NoError(t, err)

	assert.Equal(t, []side{
		{account: "6205", debit: "0", credit: "300000"},
		{account: "2408", debit: "0", credit: "57000"},
		{account: "1105", debit: "357000", credit: "0"},
	}, sides(entries))
	require.NoError(t, ValidateEntriesBalance(entries))
	assert.Contains(t, entries[0].Description, "Credit note")
}

func TestGenerateJournalEntries_RejectsUnstorableAmounts(t *testing.T) {
	tests := map[string]PostingInput{
		"too many decimals": {Type: domain.SalesInvoice, Amount: dec("2.00010"), Subtotal: dec("1.00005"), TaxAmount: dec("1.00005")},
		"mixed signs":       {Type: domain.SalesInvoice, Amount: dec("100"), Subtotal: dec("200"), TaxAmount: dec("-100")},
		"negative subtotal": {Type: domain.SalesInvoice, Amount: dec("-100"), Subtotal: dec("-300"), TaxAmount: dec("200")},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			entries, err := GenerateJournalEntries(in)
			assert.ErrorIs(t, err, ErrInvalidPostingAmount)
			assert.Empty(t, entries)
		})
	}
}

func TestReverseEntries(t *testing.T) {
	ref := "FAC-001"
	original, err := GenerateJournalEntries(PostingInput{TransactionID: 9, Type: domain.SalesInvoice, Amount: dec("119"), Subtotal: dec("100"), TaxAmount: dec("19"), Reference: ref})
	require.NoError(t, err)
	for i := range original {
		original[i].ID = int64(100 + i)
	}

	date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	reversals := ReverseEntries(original, date, "duplicated upload")

	require.Len(t, reversals, len(original))
	require.NoError(t, ValidateEntriesBalance(reversals))
	for i, r := range reversals {
		assert.True(t, r.Debit.Equal(original[i].Credit))
		assert.True(t, r.Credit.Equal(original[i].Debit))
		require.NotNil(t, r.ReversesEntryID)
		assert.Equal(t, original[i].ID, *r.ReversesEntryID)
		assert.Equal(t, date, r.EntryDate)
		assert.Contains(t, r.Description, "duplicated upload")
	}

	changes, err := BalanceChanges(append(original, reversals...))
	require.NoError(t, err)
	for code, delta := range changes {
		assert.True(t, delta.IsZero(), "account %s not netted: %s", code, delta)
	}
}
