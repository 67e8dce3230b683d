package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one debit or credit posted to the general ledger.
// Entries are append-only; corrections reference the entry they offset.
type JournalEntry struct {
	ID              int64           `json:"id"`
	EntryDate       time.Time       `json:"entryDate"`
	EntryNumber     *string         `json:"entryNumber,omitempty"`
	TransactionID   int64           `json:"transactionID"`
	AccountCode     string          `json:"accountCode"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	Description     string          `json:"description"`
	Reference       *string         `json:"reference,omitempty"`
	ReversesEntryID *int64          `json:"reversesEntryID,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// JournalEntryFilter narrows journal entry listings. Zero values mean no filter.
type JournalEntryFilter struct {
	AccountCode   string
	TransactionID int64
}
