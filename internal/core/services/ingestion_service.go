package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_assistant/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/utils"
	"github.com/SscSPs/ledger_assistant/internal/utils/accounting"
	"github.com/SscSPs/ledger_assistant/internal/utils/normalize"
	"github.com/SscSPs/ledger_assistant/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	// DefaultCurrency is the ledger currency when none is configured.
	DefaultCurrency = "COP"

	// ingestLockKey serializes every write that reads the dedup set or posts entries.
	ingestLockKey = "ledger:ingest"
)

// DefaultTaxRate is the VAT rate recorded on taxed lines.
var DefaultTaxRate = decimal.RequireFromString("0.19")

// ingestionService implements the IngestionSvcFacade interface
type ingestionService struct {
	BaseService
	documentRepo portsrepo.DocumentRepository
	ledgerRepo   portsrepo.LedgerRepository
	accountRepo  portsrepo.AccountRepository
	index        portssvc.DocumentIndex
	locker       portssvc.Locker
	currency     string
	taxRate      decimal.Decimal
	now          func() time.Time
}

// IngestionServiceOption is a functional option for configuring the ingestion service
type IngestionServiceOption func(*ingestionService)

// WithIngestionCurrency sets the currency stamped on new transactions and accounts.
func WithIngestionCurrency(currency string) IngestionServiceOption {
	return func(s *ingestionService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// WithTaxRate sets the rate recorded on taxed lines.
func WithTaxRate(rate decimal.Decimal) IngestionServiceOption {
	return func(s *ingestionService) {
		s.taxRate = rate
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) IngestionServiceOption {
	return func(s *ingestionService) {
		s.now = now
	}
}

// WithDocumentIndex feeds committed documents to a semantic index.
func WithDocumentIndex(index portssvc.DocumentIndex) IngestionServiceOption {
	return func(s *ingestionService) {
		s.index = index
	}
}

// WithLocker serializes ingestion across goroutines or processes.
func WithLocker(locker portssvc.Locker) IngestionServiceOption {
	return func(s *ingestionService) {
		s.locker = locker
	}
}

// NewIngestionService creates a new ingestion service with the provided options
func NewIngestionService(
	documentRepo portsrepo.DocumentRepository,
	ledgerRepo portsrepo.LedgerRepository,
	accountRepo portsrepo.AccountRepository,
	options ...IngestionServiceOption,
) portssvc.IngestionSvcFacade {
	svc := &ingestionService{
		documentRepo: documentRepo,
		ledgerRepo:   ledgerRepo,
		accountRepo:  accountRepo,
		currency:     DefaultCurrency,
		taxRate:      DefaultTaxRate,
		now:          time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.IngestionSvcFacade = (*ingestionService)(nil)

func (s *ingestionService) lock(ctx context.Context) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, err := s.locker.Lock(ctx, ingestLockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire ingestion lock: %w", err)
	}
	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.LogWarn(ctx, "Failed to release ingestion lock", slog.String("error", err.Error()))
		}
	}, nil
}

// IngestRows normalizes rows and commits them as one document.
func (s *ingestionService) IngestRows(ctx context.Context, in domain.IngestRowsInput) (*domain.IngestionResult, error) {
	if strings.TrimSpace(in.Filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", apperrors.ErrValidation)
	}
	if len(in.Rows) == 0 {
		return nil, fmt.Errorf("%w: document %s has no rows", apperrors.ErrValidation, in.Filename)
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx, err := s.documentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rbErr := s.documentRepo.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to rollback ingestion")
		}
	}()

	numbers := normalize.RawNumbers(in.Rows)
	existing, err := s.ledgerRepo.FindTransactionNumbersInTx(ctx, tx, numbers, normalize.CollisionPatterns(numbers))
	if err != nil {
		s.LogError(ctx, err, "Failed to load existing transaction numbers")
		return nil, err
	}

	batch := normalize.Normalize(in.Rows, normalize.Options{
		Source:   in.Source,
		Currency: s.currency,
		TaxRate:  s.taxRate,
		Today:    s.now(),
		Existing: existing,
	})

	doc, err := s.documentRepo.SaveDocumentInTx(ctx, tx, domain.Document{
		Filename: in.Filename,
		DocType:  batch.Type.DocumentType(),
		Source:   in.Source,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save document", slog.String("filename", in.Filename))
		return nil, err
	}

	if err := s.accountRepo.EnsureAccountsInTx(ctx, tx, domain.DefaultAccounts(s.currency)); err != nil {
		s.LogError(ctx, err, "Failed to ensure default accounts")
		return nil, err
	}

	result := &domain.IngestionResult{
		Document:     *doc,
		Transactions: make([]domain.Transaction, 0, len(batch.Records)),
		Diagnostics:  batch.Diagnostics(),
		Warnings:     []string{},
	}
	if result.Diagnostics == nil {
		result.Diagnostics = []domain.Diagnostic{}
	}

	var posted []domain.JournalEntry
	for _, record := range batch.Records {
		entries, saved, warning, err := s.postRecord(ctx, tx, doc.ID, record)
		if err != nil {
			return nil, err
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Transactions = append(result.Transactions, *saved)
		posted = append(posted, entries...)
	}

	if len(posted) > 0 {
		changes, err := accounting.BalanceChanges(posted)
		if err != nil {
			return nil, fmt.Errorf("failed to derive balance changes: %w", err)
		}
		if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes); err != nil {
			s.LogError(ctx, err, "Failed to update account balances")
			return nil, err
		}
	}

	if err := s.documentRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit ingestion", slog.Int64("document_id", doc.ID))
		return nil, err
	}
	result.JournalEntryCount = len(posted)

	s.LogInfo(ctx, "Document ingested",
		slog.Int64("document_id", doc.ID),
		slog.String("doc_type", string(doc.DocType)),
		slog.Int("transactions", len(result.Transactions)),
		slog.Int("journal_entries", result.JournalEntryCount),
		slog.Int("diagnostics", len(result.Diagnostics)))

	result.Indexed = s.indexDocuments(ctx, transactionIndexDocuments(doc.ID, result.Transactions))
	return result, nil
}

// postRecord stores one normalized record and its journal entries.
func (s *ingestionService) postRecord(ctx context.Context, tx pgx.Tx, documentID int64, record domain.NormalizedRecord) ([]domain.JournalEntry, *domain.Transaction, string, error) {
	txn := record.Transaction
	txn.DocumentID = &documentID

	saved, err := s.ledgerRepo.SaveTransactionInTx(ctx, tx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_number", txn.TransactionNumber))
		return nil, nil, "", err
	}

	lines := make([]domain.TransactionLine, len(record.Lines))
	for i, line := range record.Lines {
		line.TransactionID = saved.ID
		lines[i] = line
	}
	if err := s.ledgerRepo.SaveTransactionLinesInTx(ctx, tx, lines); err != nil {
		s.LogError(ctx, err, "Failed to save transaction lines", slog.Int64("transaction_id", saved.ID))
		return nil, nil, "", err
	}

	subtotal, tax := domain.LineTotals(lines)
	entries, err := accounting.GenerateJournalEntries(accounting.PostingInput{
		TransactionID: saved.ID,
		Date:          saved.TransactionDate,
		Type:          saved.TransactionType,
		Amount:        saved.Amount,
		Subtotal:      subtotal,
		TaxAmount:     tax,
		Description:   saved.Description,
		Reference:     saved.TransactionNumber,
	})
	if errors.Is(err, accounting.ErrNoPostingRule) {
		warning := fmt.Sprintf("transaction %s not posted: %v", saved.TransactionNumber, err)
		s.LogWarn(ctx, "No posting rule for transaction",
			slog.String("transaction_number", saved.TransactionNumber),
			slog.String("transaction_type", string(saved.TransactionType)))
		return nil, saved, warning, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to generate journal entries", slog.String("transaction_number", saved.TransactionNumber))
		return nil, nil, "", err
	}

	if err := s.ledgerRepo.SaveJournalEntriesInTx(ctx, tx, entries); err != nil {
		s.LogError(ctx, err, "Failed to save journal entries", slog.Int64("transaction_id", saved.ID))
		return nil, nil, "", err
	}
	return entries, saved, "", nil
}

// IngestPDF stores a PDF document from its page texts and indexes each page.
func (s *ingestionService) IngestPDF(ctx context.Context, in domain.IngestPDFInput) (*domain.IngestionResult, error) {
	if strings.TrimSpace(in.Filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", apperrors.ErrValidation)
	}
	if len(in.Pages) == 0 {
		return nil, fmt.Errorf("%w: document %s has no pages", apperrors.ErrValidation, in.Filename)
	}

	tx, err := s.documentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rbErr := s.documentRepo.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to rollback PDF ingestion")
		}
	}()

	rawText := strings.Join(in.Pages, "\n\n")
	doc, err := s.documentRepo.SaveDocumentInTx(ctx, tx, domain.Document{
		Filename: in.Filename,
		DocType:  domain.DocumentPDF,
		Source:   in.Source,
		RawText:  &rawText,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save PDF document", slog.String("filename", in.Filename))
		return nil, err
	}
	if err := s.documentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "PDF document stored", slog.Int64("document_id", doc.ID), slog.Int("pages", len(in.Pages)))

	docs := make([]domain.IndexDocument, 0, len(in.Pages))
	for i, page := range in.Pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		docs = append(docs, domain.IndexDocument{
			Text: page,
			Metadata: map[string]string{
				"doc_id": strconv.FormatInt(doc.ID, 10),
				"type":   string(domain.DocumentPDF),
				"page":   strconv.Itoa(i + 1),
			},
		})
	}

	return &domain.IngestionResult{
		Document:     *doc,
		Transactions: []domain.Transaction{},
		Diagnostics:  []domain.Diagnostic{},
		Warnings:     []string{},
		Indexed:      s.indexDocuments(ctx, docs),
	}, nil
}

// transactionIndexDocuments renders transactions as index snippets.
func transactionIndexDocuments(documentID int64, txns []domain.Transaction) []domain.IndexDocument {
	docs := make([]domain.IndexDocument, 0, len(txns))
	for _, t := range txns {
		docs = append(docs, domain.IndexDocument{
			Text: fmt.Sprintf("%s - %s - %s - $%s", t.TransactionNumber, t.Counterparty, t.Description, utils.FormatAmount(t.Amount)),
			Metadata: map[string]string{
				"doc_id": strconv.FormatInt(documentID, 10),
				"type":   string(t.TransactionType),
				"date":   t.TransactionDate.Format("2006-01-02"),
			},
		})
	}
	return docs
}

// indexDocuments feeds the index after commit. Failures are logged, never returned.
func (s *ingestionService) indexDocuments(ctx context.Context, docs []domain.IndexDocument) bool {
	if s.index == nil || len(docs) == 0 {
		return false
	}
	if err := s.index.Add(ctx, docs); err != nil {
		s.LogWarn(ctx, "Failed to index document", slog.String("error", err.Error()), slog.Int("snippets", len(docs)))
		return false
	}
	return true
}

// CompleteTransaction moves a pending transaction to completed. Completing a
// completed transaction returns it unchanged.
func (s *ingestionService) CompleteTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.Status == domain.StatusCompleted {
		return txn, nil
	}

	changed, err := s.ledgerRepo.UpdateTransactionStatus(ctx, id, domain.StatusPending, domain.StatusCompleted)
	if err != nil {
		s.LogError(ctx, err, "Failed to complete transaction", slog.Int64("transaction_id", id))
		return nil, err
	}
	if changed {
		s.LogInfo(ctx, "Transaction completed", slog.Int64("transaction_id", id))
	}
	txn.Status = domain.StatusCompleted
	return txn, nil
}

// ReverseTransaction posts offsetting entries for every original entry of a transaction.
func (s *ingestionService) ReverseTransaction(ctx context.Context, id int64, date time.Time, reason string) ([]domain.JournalEntry, error) {
	if _, err := s.ledgerRepo.FindTransactionByID(ctx, id); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.now()
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rbErr := s.ledgerRepo.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to rollback reversal")
		}
	}()

	entries, err := s.ledgerRepo.FindJournalEntriesByTransactionIDInTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	var originals []domain.JournalEntry
	for _, e := range entries {
		if e.ReversesEntryID != nil {
			return nil, fmt.Errorf("%w: transaction %d is already reversed", apperrors.ErrConflict, id)
		}
		originals = append(originals, e)
	}
	if len(originals) == 0 {
		return nil, fmt.Errorf("%w: transaction %d has no journal entries", apperrors.ErrValidation, id)
	}

	reversals := accounting.ReverseEntries(originals, date, reason)
	if err := accounting.ValidateEntriesBalance(reversals); err != nil {
		return nil, fmt.Errorf("reversal of transaction %d does not balance: %w", id, err)
	}
	if err := s.ledgerRepo.SaveJournalEntriesInTx(ctx, tx, reversals); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: transaction %d is already reversed", apperrors.ErrConflict, id)
		}
		return nil, err
	}

	changes, err := accounting.BalanceChanges(reversals)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transaction reversed", slog.Int64("transaction_id", id), slog.Int("entries", len(reversals)))
	return reversals, nil
}

// ListJournalEntries pages through posted entries, newest first.
func (s *ingestionService) ListJournalEntries(ctx context.Context, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	entries, next, err := s.ledgerRepo.ListJournalEntries(ctx, filter, pagination.ClampLimit(limit), nextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list journal entries")
		}
		return nil, nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, next, nil
}
