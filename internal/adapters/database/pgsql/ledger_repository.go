package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_assistant/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_assistant/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

const transactionColumns = `id, document_id, transaction_date, transaction_type, transaction_number, counterparty,
	description, amount, currency, payment_method, status, tags, created_at`

const journalEntryColumns = `id, entry_date, entry_number, transaction_id, account_code, debit, credit,
	description, reference, reverses_entry_id, created_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	var txType, status, tags string
	err := row.Scan(
		&txn.ID, &txn.DocumentID, &txn.TransactionDate, &txType, &txn.TransactionNumber, &txn.Counterparty,
		&txn.Description, &txn.Amount, &txn.Currency, &txn.PaymentMethod, &status, &tags, &txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	txn.TransactionType = domain.TransactionType(txType)
	txn.Status = domain.TransactionStatus(status)
	txn.Tags = splitTags(tags)
	return &txn, nil
}

func scanJournalEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	defer rows.Close()
	entries := []domain.JournalEntry{}
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(
			&e.ID, &e.EntryDate, &e.EntryNumber, &e.TransactionID, &e.AccountCode, &e.Debit, &e.Credit,
			&e.Description, &e.Reference, &e.ReversesEntryID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning journal entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	return strings.Split(tags, ",")
}

// FindTransactionNumbersInTx loads the existing numbers that could collide with a batch.
func (r *PgxLedgerRepository) FindTransactionNumbersInTx(ctx context.Context, tx pgx.Tx, numbers []string, patterns []string) (map[string]struct{}, error) {
	query := `
		SELECT transaction_number FROM transactions
		WHERE transaction_number = ANY($1) OR transaction_number LIKE ANY($2);
	`
	rows, err := tx.Query(ctx, query, numbers, patterns)
	if err != nil {
		return nil, mapPgError(err, "failed to query transaction numbers")
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, mapPgError(err, "failed to scan transaction number")
		}
		existing[n] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to iterate transaction numbers")
	}
	return existing, nil
}

// SaveTransactionInTx inserts a transaction and returns it with its assigned id.
func (r *PgxLedgerRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (document_id, transaction_date, transaction_type, transaction_number, counterparty,
			description, amount, currency, payment_method, status, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at;
	`
	err := tx.QueryRow(ctx, query,
		txn.DocumentID,
		txn.TransactionDate,
		string(txn.TransactionType),
		txn.TransactionNumber,
		txn.Counterparty,
		txn.Description,
		txn.Amount,
		txn.Currency,
		txn.PaymentMethod,
		string(txn.Status),
		joinTags(txn.Tags),
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return nil, mapPgError(err, "failed to insert transaction "+txn.TransactionNumber)
	}
	return &txn, nil
}

// SaveTransactionLinesInTx inserts lines with a single batch round trip.
func (r *PgxLedgerRepository) SaveTransactionLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.TransactionLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO transaction_lines (transaction_id, line_number, account_code, account_name, debit, credit,
			description, quantity, unit_price, subtotal, tax_rate, tax_amount, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(query,
			l.TransactionID, l.LineNumber, l.AccountCode, l.AccountName, l.Debit, l.Credit,
			l.Description, l.Quantity, l.UnitPrice, l.Subtotal, l.TaxRate, l.TaxAmount, l.Category,
		)
	}
	// Close the batch results, checking for errors during execution
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to insert transaction lines")
	}
	return nil
}

// SaveJournalEntriesInTx appends journal entries with a single batch round trip.
func (r *PgxLedgerRepository) SaveJournalEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO journal_entries (entry_date, entry_number, transaction_id, account_code, debit, credit,
			description, reference, reverses_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query,
			e.EntryDate, e.EntryNumber, e.TransactionID, e.AccountCode, e.Debit, e.Credit,
			e.Description, e.Reference, e.ReversesEntryID,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to insert journal entries")
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its id.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction", id)
		}
		return nil, mapPgError(err, "failed to find transaction")
	}
	return txn, nil
}

// FindJournalEntriesByTransactionID returns the entries of a transaction in posting order.
func (r *PgxLedgerRepository) FindJournalEntriesByTransactionID(ctx context.Context, transactionID int64) ([]domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE transaction_id = $1 ORDER BY id;`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, mapPgError(err, "failed to query journal entries")
	}
	return scanJournalEntries(rows)
}

// FindJournalEntriesByTransactionIDInTx is the locking variant used while reversing.
func (r *PgxLedgerRepository) FindJournalEntriesByTransactionIDInTx(ctx context.Context, tx pgx.Tx, transactionID int64) ([]domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE transaction_id = $1 ORDER BY id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, transactionID)
	if err != nil {
		return nil, mapPgError(err, "failed to query journal entries")
	}
	return scanJournalEntries(rows)
}

// ListJournalEntries pages through entries ordered by (entry_date DESC, id DESC).
func (r *PgxLedgerRepository) ListJournalEntries(ctx context.Context, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	q := &queryArgs{}
	var where strings.Builder
	where.WriteString("WHERE 1=1")
	if filter.AccountCode != "" {
		fmt.Fprintf(&where, " AND account_code = %s", q.add(filter.AccountCode))
	}
	if filter.TransactionID != 0 {
		fmt.Fprintf(&where, " AND transaction_id = %s", q.add(filter.TransactionID))
	}
	if nextToken != nil && *nextToken != "" {
		entryDate, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		fmt.Fprintf(&where, " AND (entry_date, id) < (%s, %s)", q.add(entryDate), q.add(id))
	}

	// Fetch one extra row to know whether another page exists.
	query := fmt.Sprintf(`SELECT %s FROM journal_entries %s ORDER BY entry_date DESC, id DESC LIMIT %s;`,
		journalEntryColumns, where.String(), q.add(limit+1))

	rows, err := r.Pool.Query(ctx, query, q.args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to list journal entries")
	}
	entries, err := scanJournalEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.ID)
		next = &token
	}
	return entries, next, nil
}

// UpdateTransactionStatus performs a guarded status transition.
func (r *PgxLedgerRepository) UpdateTransactionStatus(ctx context.Context, id int64, from, to domain.TransactionStatus) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `UPDATE transactions SET status = $3 WHERE id = $1 AND status = $2;`, id, string(from), string(to))
	if err != nil {
		return false, mapPgError(err, "failed to update transaction status")
	}
	return tag.RowsAffected() > 0, nil
}
