package dto

import (
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	AccountCode   string  `form:"accountCode" binding:"omitempty,numeric"`
	TransactionID int64   `form:"transactionID" binding:"omitempty,min=1"`
	Limit         int     `form:"limit,default=50" binding:"min=0,max=500"`
	NextToken     *string `form:"nextToken"`
}

// JournalEntryResponse is one posted debit or credit.
type JournalEntryResponse struct {
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
}

// ListJournalEntriesResponse is a page of entries plus the token for the next page.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ReverseTransactionRequest is the optional body of a reversal.
type ReverseTransactionRequest struct {
	Date   string `json:"date" binding:"omitempty,isodate"`
	Reason string `json:"reason" binding:"max=500"`
}

// ToJournalEntryResponse converts a domain.JournalEntry.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		ID:              e.ID,
		EntryDate:       e.EntryDate,
		EntryNumber:     e.EntryNumber,
		TransactionID:   e.TransactionID,
		AccountCode:     e.AccountCode,
		Debit:           e.Debit,
		Credit:          e.Credit,
		Description:     e.Description,
		Reference:       e.Reference,
		ReversesEntryID: e.ReversesEntryID,
	}
}

// ToJournalEntryResponses converts a slice of entries, never returning nil.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}
