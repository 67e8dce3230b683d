package services

import (
	"context"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
)

// ReportingService defines the interface for generating financial reports
type ReportingService interface {
	// Run dispatches a typed report request.
	Run(ctx context.Context, req domain.ReportRequest) (*domain.Report, error)

	BalanceSheet(ctx context.Context, r domain.DateRange) (*domain.BalanceSheet, error)
	IncomeStatement(ctx context.Context, r domain.DateRange) (*domain.IncomeStatement, error)
	SalesSummary(ctx context.Context, r domain.DateRange) (*domain.InvoiceSummary, error)
	PurchaseSummary(ctx context.Context, r domain.DateRange) (*domain.InvoiceSummary, error)
	ExpensesByCategory(ctx context.Context, r domain.DateRange) (*domain.ExpenseBreakdown, error)
	CashFlow(ctx context.Context, r domain.DateRange) (*domain.CashFlow, error)
	AgingAnalysis(ctx context.Context, r domain.DateRange) (*domain.AgingReport, error)
	TaxSummary(ctx context.Context, r domain.DateRange) (*domain.TaxSummary, error)
	ProfitMargin(ctx context.Context, r domain.DateRange) (*domain.ProfitMargin, error)
	TrendAnalysis(ctx context.Context, req domain.TrendAnalysisRequest) ([]domain.TrendPoint, error)
	TrialBalance(ctx context.Context, r domain.DateRange) ([]domain.TrialBalanceRow, error)

	// Status reports how much data the ledger holds.
	Status(ctx context.Context) (*domain.LedgerStatus, error)
}
