package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
)

// ReportingRepository runs the read-only aggregations behind the report catalogue.
// Every method returns zero values, not errors, when nothing matches.
type ReportingRepository interface {
	BalanceSheet(ctx context.Context, r domain.DateRange) (*domain.BalanceSheet, error)
	IncomeStatement(ctx context.Context, r domain.DateRange) (*domain.IncomeStatement, error)
	InvoiceSummary(ctx context.Context, t domain.TransactionType, r domain.DateRange) (*domain.InvoiceSummary, error)
	ExpensesByCategory(ctx context.Context, r domain.DateRange) ([]domain.CategoryTotal, error)
	CashFlow(ctx context.Context, r domain.DateRange) (*domain.CashFlow, error)
	AgingAnalysis(ctx context.Context, r domain.DateRange, limit int) ([]domain.AgingRow, error)
	TaxSummary(ctx context.Context, r domain.DateRange) (*domain.TaxSummary, error)
	TrendAnalysis(ctx context.Context, since, until time.Time) ([]domain.TrendPoint, error)
	TrialBalance(ctx context.Context, r domain.DateRange) ([]domain.TrialBalanceRow, error)
	LedgerStatus(ctx context.Context) (*domain.LedgerStatus, error)
}
