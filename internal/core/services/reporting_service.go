package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_assistant/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DefaultMaxReportRows caps list-shaped reports.
const DefaultMaxReportRows = 50

var hundred = decimal.NewFromInt(100)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	maxRows       int
	now           func() time.Time
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithMaxReportRows caps the rows returned by list-shaped reports.
func WithMaxReportRows(n int) ReportingServiceOption {
	return func(s *reportingService) {
		if n > 0 {
			s.maxRows = n
		}
	}
}

// WithReportingClock replaces time.Now for trend windows.
func WithReportingClock(now func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.now = now
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		maxRows:       DefaultMaxReportRows,
		now:           time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// Run dispatches a typed report request.
func (s *reportingService) Run(ctx context.Context, req domain.ReportRequest) (*domain.Report, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: report request is required", apperrors.ErrValidation)
	}

	var (
		data any
		err  error
	)
	switch r := req.(type) {
	case domain.BalanceSheetRequest:
		data, err = s.BalanceSheet(ctx, r.Range)
	case domain.IncomeStatementRequest:
		data, err = s.IncomeStatement(ctx, r.Range)
	case domain.SalesSummaryRequest:
		data, err = s.SalesSummary(ctx, r.Range)
	case domain.PurchaseSummaryRequest:
		data, err = s.PurchaseSummary(ctx, r.Range)
	case domain.ExpensesByCategoryRequest:
		data, err = s.ExpensesByCategory(ctx, r.Range)
	case domain.CashFlowRequest:
		data, err = s.CashFlow(ctx, r.Range)
	case domain.AgingAnalysisRequest:
		data, err = s.AgingAnalysis(ctx, r.Range)
	case domain.TaxSummaryRequest:
		data, err = s.TaxSummary(ctx, r.Range)
	case domain.ProfitMarginRequest:
		data, err = s.ProfitMargin(ctx, r.Range)
	case domain.TrendAnalysisRequest:
		data, err = s.TrendAnalysis(ctx, r)
	case domain.TrialBalanceRequest:
		data, err = s.TrialBalance(ctx, r.Range)
	default:
		return nil, fmt.Errorf("%w: unsupported report %q", apperrors.ErrValidation, req.Kind())
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to generate report", slog.String("kind", string(req.Kind())))
		return nil, err
	}

	s.LogDebug(ctx, "Report generated", slog.String("kind", string(req.Kind())))
	return &domain.Report{Kind: req.Kind(), Data: data}, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, r domain.DateRange) (*domain.BalanceSheet, error) {
	bs, err := s.reportingRepo.BalanceSheet(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}
	return bs, nil
}

func (s *reportingService) IncomeStatement(ctx context.Context, r domain.DateRange) (*domain.IncomeStatement, error) {
	is, err := s.reportingRepo.IncomeStatement(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve income statement data: %w", err)
	}
	return is, nil
}

func (s *reportingService) SalesSummary(ctx context.Context, r domain.DateRange) (*domain.InvoiceSummary, error) {
	summary, err := s.reportingRepo.InvoiceSummary(ctx, domain.SalesInvoice, r)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sales summary: %w", err)
	}
	return summary, nil
}

func (s *reportingService) PurchaseSummary(ctx context.Context, r domain.DateRange) (*domain.InvoiceSummary, error) {
	summary, err := s.reportingRepo.InvoiceSummary(ctx, domain.PurchaseInvoice, r)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve purchase summary: %w", err)
	}
	return summary, nil
}

func (s *reportingService) ExpensesByCategory(ctx context.Context, r domain.DateRange) (*domain.ExpenseBreakdown, error) {
	rows, err := s.reportingRepo.ExpensesByCategory(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve expenses by category: %w", err)
	}
	out := &domain.ExpenseBreakdown{Categories: rows}
	if out.Categories == nil {
		out.Categories = []domain.CategoryTotal{}
	}
	if len(out.Categories) > s.maxRows {
		out.Categories = out.Categories[:s.maxRows]
		out.Truncated = true
	}
	return out, nil
}

func (s *reportingService) CashFlow(ctx context.Context, r domain.DateRange) (*domain.CashFlow, error) {
	cf, err := s.reportingRepo.CashFlow(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cash flow: %w", err)
	}
	return cf, nil
}

func (s *reportingService) AgingAnalysis(ctx context.Context, r domain.DateRange) (*domain.AgingReport, error) {
	// One row past the cap tells whether anything was cut.
	rows, err := s.reportingRepo.AgingAnalysis(ctx, r, s.maxRows+1)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve aging analysis: %w", err)
	}
	out := &domain.AgingReport{Rows: rows}
	if out.Rows == nil {
		out.Rows = []domain.AgingRow{}
	}
	if len(out.Rows) > s.maxRows {
		out.Rows = out.Rows[:s.maxRows]
		out.Truncated = true
	}
	return out, nil
}

func (s *reportingService) TaxSummary(ctx context.Context, r domain.DateRange) (*domain.TaxSummary, error) {
	ts, err := s.reportingRepo.TaxSummary(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tax summary: %w", err)
	}
	return ts, nil
}

// ProfitMargin expresses gross and net income as percentages of revenue.
// Both margins are zero when there is no revenue.
func (s *reportingService) ProfitMargin(ctx context.Context, r domain.DateRange) (*domain.ProfitMargin, error) {
	is, err := s.IncomeStatement(ctx, r)
	if err != nil {
		return nil, err
	}
	pm := &domain.ProfitMargin{GrossMargin: decimal.Zero, NetMargin: decimal.Zero}
	if is.Revenue.IsZero() {
		return pm, nil
	}
	pm.GrossMargin = is.GrossProfit.Div(is.Revenue).Mul(hundred).Round(2)
	pm.NetMargin = is.NetIncome.Div(is.Revenue).Mul(hundred).Round(2)
	return pm, nil
}

// TrendAnalysis totals amounts per month over the trailing window ending at AsOf.
func (s *reportingService) TrendAnalysis(ctx context.Context, req domain.TrendAnalysisRequest) ([]domain.TrendPoint, error) {
	months := req.Months
	if months <= 0 {
		months = domain.DefaultTrendMonths
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = s.now()
	}
	until := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	since := until.AddDate(0, -months, 0)

	points, err := s.reportingRepo.TrendAnalysis(ctx, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve trend analysis: %w", err)
	}
	if points == nil {
		points = []domain.TrendPoint{}
	}
	return points, nil
}

func (s *reportingService) TrialBalance(ctx context.Context, r domain.DateRange) ([]domain.TrialBalanceRow, error) {
	rows, err := s.reportingRepo.TrialBalance(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}
	if rows == nil {
		rows = []domain.TrialBalanceRow{}
	}
	return rows, nil
}

func (s *reportingService) Status(ctx context.Context) (*domain.LedgerStatus, error) {
	status, err := s.reportingRepo.LedgerStatus(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger status")
		return nil, fmt.Errorf("failed to read ledger status: %w", err)
	}
	return status, nil
}
