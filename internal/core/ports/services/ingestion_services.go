package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
)

// IngestionWriterSvc turns source documents into ledger rows.
type IngestionWriterSvc interface {
	// IngestRows normalizes rows and commits document, transactions, lines and
	// journal entries atomically.
	IngestRows(ctx context.Context, in domain.IngestRowsInput) (*domain.IngestionResult, error)

	// IngestPDF stores a PDF document from its page texts and indexes the pages.
	IngestPDF(ctx context.Context, in domain.IngestPDFInput) (*domain.IngestionResult, error)
}

// TransactionLifecycleSvc covers the changes a committed transaction may still undergo.
type TransactionLifecycleSvc interface {
	// CompleteTransaction moves a pending transaction to completed.
	CompleteTransaction(ctx context.Context, id int64) (*domain.Transaction, error)

	// ReverseTransaction posts offsetting entries for every entry of a transaction.
	ReverseTransaction(ctx context.Context, id int64, date time.Time, reason string) ([]domain.JournalEntry, error)
}

// JournalReaderSvc lists posted journal entries.
type JournalReaderSvc interface {
	ListJournalEntries(ctx context.Context, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// IngestionSvcFacade combines the ingestion-side services.
type IngestionSvcFacade interface {
	IngestionWriterSvc
	TransactionLifecycleSvc
	JournalReaderSvc
}

// Locker serializes work on a key. The returned release function must be called.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(context.Context) error, err error)
}
