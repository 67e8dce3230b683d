package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReportKind names a report in the fixed catalogue.
type ReportKind string

const (
	ReportBalanceSheet       ReportKind = "balance_sheet"
	ReportIncomeStatement    ReportKind = "income_statement"
	ReportSalesSummary       ReportKind = "sales_summary"
	ReportPurchaseSummary    ReportKind = "purchase_summary"
	ReportExpensesByCategory ReportKind = "expenses_by_category"
	ReportCashFlow           ReportKind = "cash_flow"
	ReportAgingAnalysis      ReportKind = "aging_analysis"
	ReportTaxSummary         ReportKind = "tax_summary"
	ReportProfitMargin       ReportKind = "profit_margin"
	ReportTrendAnalysis      ReportKind = "trend_analysis"
	ReportTrialBalance       ReportKind = "trial_balance"
)

// DefaultTrendMonths is the trailing window used when a trend request has none.
const DefaultTrendMonths = 6

// ReportKinds lists the catalogue in a stable order.
func ReportKinds() []ReportKind {
	return []ReportKind{
		ReportBalanceSheet, ReportIncomeStatement, ReportSalesSummary, ReportPurchaseSummary,
		ReportExpensesByCategory, ReportCashFlow, ReportAgingAnalysis, ReportTaxSummary,
		ReportProfitMargin, ReportTrendAnalysis, ReportTrialBalance,
	}
}

// ParseReportKind resolves a name from an outer boundary (HTTP, CLI, planner).
func ParseReportKind(name string) (ReportKind, error) {
	candidate := ReportKind(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range ReportKinds() {
		if k == candidate {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown report %q", name)
}

// ReportRequest is a closed set of typed report requests.
type ReportRequest interface {
	Kind() ReportKind
	isReportRequest()
}

type BalanceSheetRequest struct{ Range DateRange }
type IncomeStatementRequest struct{ Range DateRange }
type SalesSummaryRequest struct{ Range DateRange }
type PurchaseSummaryRequest struct{ Range DateRange }
type ExpensesByCategoryRequest struct{ Range DateRange }
type CashFlowRequest struct{ Range DateRange }
type AgingAnalysisRequest struct{ Range DateRange }
type TaxSummaryRequest struct{ Range DateRange }
type ProfitMarginRequest struct{ Range DateRange }
type TrialBalanceRequest struct{ Range DateRange }

// TrendAnalysisRequest covers the Months months up to AsOf. Zero values use
// DefaultTrendMonths and today.
type TrendAnalysisRequest struct {
	Months int
	AsOf   time.Time
}

func (BalanceSheetRequest) Kind() ReportKind       { return ReportBalanceSheet }
func (IncomeStatementRequest) Kind() ReportKind    { return ReportIncomeStatement }
func (SalesSummaryRequest) Kind() ReportKind       { return ReportSalesSummary }
func (PurchaseSummaryRequest) Kind() ReportKind    { return ReportPurchaseSummary }
func (ExpensesByCategoryRequest) Kind() ReportKind { return ReportExpensesByCategory }
func (CashFlowRequest) Kind() ReportKind           { return ReportCashFlow }
func (AgingAnalysisRequest) Kind() ReportKind      { return ReportAgingAnalysis }
func (TaxSummaryRequest) Kind() ReportKind         { return ReportTaxSummary }
func (ProfitMarginRequest) Kind() ReportKind       { return ReportProfitMargin }
func (TrendAnalysisRequest) Kind() ReportKind      { return ReportTrendAnalysis }
func (TrialBalanceRequest) Kind() ReportKind       { return ReportTrialBalance }

func (BalanceSheetRequest) isReportRequest()       {}
func (IncomeStatementRequest) isReportRequest()    {}
func (SalesSummaryRequest) isReportRequest()       {}
func (PurchaseSummaryRequest) isReportRequest()    {}
func (ExpensesByCategoryRequest) isReportRequest() {}
func (CashFlowRequest) isReportRequest()           {}
func (AgingAnalysisRequest) isReportRequest()      {}
func (TaxSummaryRequest) isReportRequest()         {}
func (ProfitMarginRequest) isReportRequest()       {}
func (TrendAnalysisRequest) isReportRequest()      {}
func (TrialBalanceRequest) isReportRequest()       {}

// ReportParams are the loosely typed parameters accepted at outer boundaries.
type ReportParams struct {
	Range  DateRange
	Months int
	AsOf   time.Time
}

// NewReportRequest builds the typed request for kind.
func NewReportRequest(kind ReportKind, p ReportParams) ReportRequest {
	switch kind {
	case ReportBalanceSheet:
		return BalanceSheetRequest{Range: p.Range}
	case ReportIncomeStatement:
		return IncomeStatementRequest{Range: p.Range}
	case ReportSalesSummary:
		return SalesSummaryRequest{Range: p.Range}
	case ReportPurchaseSummary:
		return PurchaseSummaryRequest{Range: p.Range}
	case ReportExpensesByCategory:
		return ExpensesByCategoryRequest{Range: p.Range}
	case ReportCashFlow:
		return CashFlowRequest{Range: p.Range}
	case ReportAgingAnalysis:
		return AgingAnalysisRequest{Range: p.Range}
	case ReportTaxSummary:
		return TaxSummaryRequest{Range: p.Range}
	case ReportProfitMargin:
		return ProfitMarginRequest{Range: p.Range}
	case ReportTrendAnalysis:
		return TrendAnalysisRequest{Months: p.Months, AsOf: p.AsOf}
	case ReportTrialBalance:
		return TrialBalanceRequest{Range: p.Range}
	}
	return nil
}

// Report is the result of running one catalogue entry.
type Report struct {
	Kind ReportKind `json:"kind"`
	Data any        `json:"data"`
}
