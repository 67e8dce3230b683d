package dto

import (
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IngestRowsRequest carries spreadsheet-like rows as JSON objects.
type IngestRowsRequest struct {
	Filename string           `json:"filename" binding:"required"`
	Source   string           `json:"source"`
	Rows     []map[string]any `json:"rows" binding:"required,min=1"`
}

// IngestPDFRequest carries the extracted text of each page.
type IngestPDFRequest struct {
	Filename string   `json:"filename" binding:"required"`
	Source   string   `json:"source"`
	Pages    []string `json:"pages" binding:"required,min=1"`
}

// DocumentResponse describes a stored source document.
type DocumentResponse struct {
	ID        int64               `json:"id"`
	Filename  string              `json:"filename"`
	DocType   domain.DocumentType `json:"docType"`
	DocNumber *string             `json:"docNumber,omitempty"`
	Source    string              `json:"source"`
	CreatedAt time.Time           `json:"createdAt"`
}

// TransactionResponse describes a committed transaction.
type TransactionResponse struct {
	ID                int64                    `json:"id"`
	DocumentID        *int64                   `json:"documentID,omitempty"`
	TransactionDate   time.Time                `json:"transactionDate"`
	TransactionType   domain.TransactionType   `json:"transactionType"`
	TransactionNumber string                   `json:"transactionNumber"`
	Counterparty      string                   `json:"counterparty"`
	Description       string                   `json:"description"`
	Amount            decimal.Decimal          `json:"amount"`
	Currency          string                   `json:"currency"`
	PaymentMethod     *string                  `json:"paymentMethod,omitempty"`
	Status            domain.TransactionStatus `json:"status"`
}

// IngestionResponse summarises an ingested document.
type IngestionResponse struct {
	Document          DocumentResponse      `json:"document"`
	Transactions      []TransactionResponse `json:"transactions"`
	JournalEntryCount int                   `json:"journalEntryCount"`
	Diagnostics       []domain.Diagnostic   `json:"diagnostics"`
	Warnings          []string              `json:"warnings"`
	Indexed           bool                  `json:"indexed"`
}

// ToRows converts JSON objects to loosely typed rows.
func (r IngestRowsRequest) ToRows() []domain.Row {
	rows := make([]domain.Row, len(r.Rows))
	for i, m := range r.Rows {
		rows[i] = domain.Row(m)
	}
	return rows
}

// ToTransactionResponse converts a domain.Transaction.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                t.ID,
		DocumentID:        t.DocumentID,
		TransactionDate:   t.TransactionDate,
		TransactionType:   t.TransactionType,
		TransactionNumber: t.TransactionNumber,
		Counterparty:      t.Counterparty,
		Description:       t.Description,
		Amount:            t.Amount,
		Currency:          t.Currency,
		PaymentMethod:     t.PaymentMethod,
		Status:            t.Status,
	}
}

// ToIngestionResponse converts a domain.IngestionResult.
func ToIngestionResponse(r *domain.IngestionResult) IngestionResponse {
	txns := make([]TransactionResponse, len(r.Transactions))
	for i := range r.Transactions {
		txns[i] = ToTransactionResponse(&r.Transactions[i])
	}
	diagnostics := r.Diagnostics
	if diagnostics == nil {
		diagnostics = []domain.Diagnostic{}
	}
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return IngestionResponse{
		Document: DocumentResponse{
			ID:        r.Document.ID,
			Filename:  r.Document.Filename,
			DocType:   r.Document.DocType,
			DocNumber: r.Document.DocNumber,
			Source:    r.Document.Source,
			CreatedAt: r.Document.CreatedAt,
		},
		Transactions:      txns,
		JournalEntryCount: r.JournalEntryCount,
		Diagnostics:       diagnostics,
		Warnings:          warnings,
		Indexed:           r.Indexed,
	}
}
