package repositories

import (
	"context"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerReader reads transactions and journal entries.
type LedgerReader interface {
	FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error)
	FindJournalEntriesByTransactionID(ctx context.Context, transactionID int64) ([]domain.JournalEntry, error)
	// ListJournalEntries pages through entries newest first.
	ListJournalEntries(ctx context.Context, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// LedgerWriter appends transactions, lines and journal entries within a caller-owned transaction.
type LedgerWriter interface {
	// FindTransactionNumbersInTx returns the subset of the ledger's transaction numbers that
	// equal one of numbers or match one of the LIKE patterns.
	FindTransactionNumbersInTx(ctx context.Context, tx pgx.Tx, numbers []string, patterns []string) (map[string]struct{}, error)
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (*domain.Transaction, error)
	SaveTransactionLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.TransactionLine) error
	SaveJournalEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.JournalEntry) error
	FindJournalEntriesByTransactionIDInTx(ctx context.Context, tx pgx.Tx, transactionID int64) ([]domain.JournalEntry, error)
	// UpdateTransactionStatus moves a transaction from one status to another and
	// reports whether a row changed.
	UpdateTransactionStatus(ctx context.Context, id int64, from, to domain.TransactionStatus) (bool, error)
}

// LedgerRepository combines the ledger read and write sides.
type LedgerRepository interface {
	TransactionManager
	LedgerReader
	LedgerWriter
}
