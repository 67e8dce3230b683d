package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- transaction manager shared by the repository mocks ---

type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *mockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *mockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

// MockDocumentRepository is a mock type for the DocumentRepository interface
type MockDocumentRepository struct {
	mockTxManager
}

func (m *MockDocumentRepository) SaveDocumentInTx(ctx context.Context, tx pgx.Tx, doc domain.Document) (*domain.Document, error) {
	args := m.Called(ctx, tx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, id int64) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

// MockLedgerRepository is a mock type for the LedgerRepository interface
type MockLedgerRepository struct {
	mockTxManager
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) FindJournalEntriesByTransactionID(ctx context.Context, transactionID int64) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListJournalEntries(ctx context.Context, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), next, args.Error(2)
}

func (m *MockLedgerRepository) FindTransactionNumbersInTx(ctx context.Context, tx pgx.Tx, numbers []string, patterns []string) (map[string]struct{}, error) {
	args := m.Called(ctx, tx, numbers, patterns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockLedgerRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, tx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) SaveTransactionLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.TransactionLine) error {
	return m.Called(ctx, tx, lines).Error(0)
}

func (m *MockLedgerRepository) SaveJournalEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.JournalEntry) error {
	return m.Called(ctx, tx, entries).Error(0)
}

func (m *MockLedgerRepository) FindJournalEntriesByTransactionIDInTx(ctx context.Context, tx pgx.Tx, transactionID int64) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, tx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerRepository) UpdateTransactionStatus(ctx context.Context, id int64, from, to domain.TransactionStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mockTxManager
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) EnsureAccount(ctx context.Context, account domain.Account) (bool, error) {
	args := m.Called(ctx, account)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) EnsureAccountsInTx(ctx context.Context, tx pgx.Tx, accounts []domain.Account) error {
	return m.Called(ctx, tx, accounts).Error(0)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal) error {
	return m.Called(ctx, tx, changes).Error(0)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) BalanceSheet(ctx context.Context, r domain.DateRange) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

func (m *MockReportingRepository) IncomeStatement(ctx context.Context, r domain.DateRange) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}

func (m *MockReportingRepository) InvoiceSummary(ctx context.Context, t domain.TransactionType, r domain.DateRange) (*domain.InvoiceSummary, error) {
	args := m.Called(ctx, t, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSummary), args.Error(1)
}

func (m *MockReportingRepository) ExpensesByCategory(ctx context.Context, r domain.DateRange) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}

func (m *MockReportingRepository) CashFlow(ctx context.Context, r domain.DateRange) (*domain.CashFlow, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlow), args.Error(1)
}

func (m *MockReportingRepository) AgingAnalysis(ctx context.Context, r domain.DateRange, limit int) ([]domain.AgingRow, error) {
	args := m.Called(ctx, r, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AgingRow), args.Error(1)
}

func (m *MockReportingRepository) TaxSummary(ctx context.Context, r domain.DateRange) (*domain.TaxSummary, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxSummary), args.Error(1)
}

func (m *MockReportingRepository) TrendAnalysis(ctx context.Context, since, until time.Time) ([]domain.TrendPoint, error) {
	args := m.Called(ctx, since, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrendPoint), args.Error(1)
}

func (m *MockReportingRepository) TrialBalance(ctx context.Context, r domain.DateRange) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) LedgerStatus(ctx context.Context) (*domain.LedgerStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerStatus), args.Error(1)
}

// MockDocumentIndex is a mock type for the DocumentIndex interface
type MockDocumentIndex struct {
	mock.Mock
}

func (m *MockDocumentIndex) Add(ctx context.Context, docs []domain.IndexDocument) error {
	return m.Called(ctx, docs).Error(0)
}

func (m *MockDocumentIndex) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	args := m.Called(ctx, query, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

// MockPlanner is a mock type for the Planner interface
type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) Plan(ctx context.Context, question string, kinds []domain.ReportKind) (*domain.QueryPlan, error) {
	args := m.Called(ctx, question, kinds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QueryPlan), args.Error(1)
}

func (m *MockPlanner) Synthesize(ctx context.Context, question string, facts string) (string, error) {
	args := m.Called(ctx, question, facts)
	return args.String(0), args.Error(1)
}

// countingLocker records lock usage.
type countingLocker struct {
	locks    int
	releases int
}

func (l *countingLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	l.locks++
	return func(context.Context) error {
		l.releases++
		return nil
	}, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
