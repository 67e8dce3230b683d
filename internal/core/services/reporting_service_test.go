package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	repo    *MockReportingRepository
	service portssvc.ReportingService
	now     time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.repo = new(MockReportingRepository)
	suite.now = time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC)
	suite.service = services.NewReportingService(suite.repo,
		services.WithMaxReportRows(2),
		services.WithReportingClock(func() time.Time { return suite.now }),
	)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func (suite *ReportingServiceTestSuite) TestProfitMargin_ZeroRevenue() {
	suite.repo.On("IncomeStatement", mock.Anything, domain.DateRange{}).Return(&domain.IncomeStatement{
		Revenue: decimal.Zero, CostOfSales: decimal.Zero, GrossProfit: decimal.Zero,
		OperatingExpenses: dec("1000"), NetIncome: dec("-1000"),
	}, nil).Once()

	pm, err := suite.service.ProfitMargin(context.Background(), domain.DateRange{})

	suite.Require().NoError(err)
	suite.True(pm.GrossMargin.IsZero())
	suite.True(pm.NetMargin.IsZero())
}

func (suite *ReportingServiceTestSuite) TestProfitMargin_Percentages() {
	suite.repo.On("IncomeStatement", mock.Anything, domain.DateRange{}).Return(&domain.IncomeStatement{
		Revenue: dec("500000"), CostOfSales: decimal.Zero, GrossProfit: dec("500000"),
		OperatingExpenses: dec("300000"), NetIncome: dec("200000"),
	}, nil).Once()

	pm, err := suite.service.ProfitMargin(context.Background(), domain.DateRange{})

	suite.Require().NoError(err)
	suite.Equal("100", pm.GrossMargin.String())
	suite.Equal("40", pm.NetMargin.String())
}

func (suite *ReportingServiceTestSuite) TestRun_DispatchesByRequestType() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := domain.DateRange{Start: &start}

	suite.repo.On("InvoiceSummary", mock.Anything, domain.PurchaseInvoice, rng).
		Return(&domain.InvoiceSummary{TransactionType: domain.PurchaseInvoice, InvoiceCount: 1, TotalAmount: dec("357000")}, nil).Once()
	suite.repo.On("CashFlow", mock.Anything, rng).
		Return(&domain.CashFlow{Inflow: decimal.Zero, Outflow: dec("357000"), Net: dec("-357000")}, nil).Once()

	report, err := suite.service.Run(context.Background(), domain.PurchaseSummaryRequest{Range: rng})
	suite.Require().NoError(err)
	suite.Equal(domain.ReportPurchaseSummary, report.Kind)
	suite.Equal(int64(1), report.Data.(*domain.InvoiceSummary).InvoiceCount)

	report, err = suite.service.Run(context.Background(), domain.CashFlowRequest{Range: rng})
	suite.Require().NoError(err)
	suite.True(report.Data.(*domain.CashFlow).Outflow.Equal(dec("357000")))

	suite.repo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestRun_NilRequest() {
	_, err := suite.service.Run(context.Background(), nil)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestTrendAnalysis_DefaultWindow() {
	until := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	since := time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)
	suite.repo.On("TrendAnalysis", mock.Anything, since, until).Return(nil, nil).Once()

	points, err := suite.service.TrendAnalysis(context.Background(), domain.TrendAnalysisRequest{})

	suite.Require().NoError(err)
	suite.NotNil(points)
	suite.Empty(points)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestTrendAnalysis_ExplicitWindow() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	suite.repo.On("TrendAnalysis", mock.Anything, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), asOf).
		Return([]domain.TrendPoint{{Month: "2024-03", TransactionType: domain.SalesInvoice, Total: dec("10")}}, nil).Once()

	points, err := suite.service.TrendAnalysis(context.Background(), domain.TrendAnalysisRequest{Months: 2, AsOf: asOf})

	suite.Require().NoError(err)
	suite.Len(points, 1)
}

func (suite *ReportingServiceTestSuite) TestExpensesByCategory_CapsRowsAndFlagsTruncation() {
	suite.repo.On("ExpensesByCategory", mock.Anything, domain.DateRange{}).Return([]domain.CategoryTotal{
		{Category: "Rent", Total: dec("3")}, {Category: "Food", Total: dec("2")}, {Category: "General", Total: dec("1")},
	}, nil).Once()

	out, err := suite.service.ExpensesByCategory(context.Background(), domain.DateRange{})

	suite.Require().NoError(err)
	suite.Len(out.Categories, 2)
	suite.Equal("Rent", out.Categories[0].Category)
	suite.True(out.Truncated)
}

func (suite *ReportingServiceTestSuite) TestExpensesByCategory_WithinCap() {
	suite.repo.On("ExpensesByCategory", mock.Anything, domain.DateRange{}).Return([]domain.CategoryTotal{
		{Category: "Rent", Total: dec("3")}, {Category: "Food", Total: dec("2")},
	}, nil).Once()

	out, err := suite.service.ExpensesByCategory(context.Background(), domain.DateRange{})

	suite.Require().NoError(err)
	suite.Len(out.Categories, 2)
	suite.False(out.Truncated)
}

func (suite *ReportingServiceTestSuite) TestAgingAnalysis_FetchesOnePastCap() {
	suite.repo.On("AgingAnalysis", mock.Anything, domain.DateRange{}, 3).Return([]domain.AgingRow{
		{Counterparty: "A", Outstanding: dec("30")}, {Counterparty: "B", Outstanding: dec("20")}, {Counterparty: "C", Outstanding: dec("10")},
	}, nil).Once()

	out, err := suite.service.AgingAnalysis(context.Background(), domain.DateRange{})

	suite.Require().NoError(err)
	suite.Len(out.Rows, 2)
	suite.True(out.Truncated)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestAgingAnalysis_EmptyIsNotNil() {
	suite.repo.On("AgingAnalysis", mock.Anything, domain.DateRange{}, 3).Return(nil, nil).Once()

	out, err := suite.service.AgingAnalysis(context.Background(), domain.DateRange{})

	suite.Require().NoError(err)
	suite.NotNil(out.Rows)
	suite.Empty(out.Rows)
	suite.False(out.Truncated)
}

func (suite *ReportingServiceTestSuite) TestRepositoryErrorsPropagate() {
	suite.repo.On("BalanceSheet", mock.Anything, domain.DateRange{}).Return(nil, assert.AnError).Once()

	_, err := suite.service.Run(context.Background(), domain.BalanceSheetRequest{})

	suite.ErrorIs(err, assert.AnError)
}
