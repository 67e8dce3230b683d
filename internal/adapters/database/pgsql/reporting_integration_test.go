package pgsql

import (
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/core/services"
	"github.com/SscSPs/ledger_assistant/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

func (s *LedgerIntegrationSuite) ingestion() portssvc.IngestionSvcFacade {
	return services.NewIngestionService(s.repos.docs, s.repos.ledger, s.repos.account,
		services.WithIngestionCurrency("COP"),
		services.WithClock(func() time.Time { return time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC) }),
	)
}

func (s *LedgerIntegrationSuite) ingest(filename string, rows ...domain.Row) *domain.IngestionResult {
	result, err := s.ingestion().IngestRows(s.ctx, domain.IngestRowsInput{Filename: filename, Source: "upload", Rows: rows})
	s.Require().NoError(err)
	return result
}

func (s *LedgerIntegrationSuite) equalAmount(want string, got decimal.Decimal, msg string) {
	s.True(decimal.RequireFromString(want).Equal(got), "%s: want %s, got %s", msg, want, got)
}

// assertTrialBalanceBalances checks stored debits equal stored credits.
func (s *LedgerIntegrationSuite) assertTrialBalanceBalances() {
	rows, err := s.repos.reports.TrialBalance(s.ctx, domain.DateRange{})
	s.Require().NoError(err)
	debits, credits := decimal.Zero, decimal.Zero
	for _, r := range rows {
		debits = debits.Add(r.Debit)
		credits = credits.Add(r.Credit)
	}
	s.True(debits.Equal(credits), "debits %s credits %s", debits, credits)
}

func (s *LedgerIntegrationSuite) ingestSampleLedger() {
	s.ingest("ventas.xlsx",
		domain.Row{"factura": "F-001", "fecha": "2024-01-15", "cliente": "Cliente A", "subtotal": "500000", "iva": "95000", "total": "595000", "categoria": "Servicios"},
		domain.Row{"factura": "F-002", "fecha": "2024-02-10", "cliente": "Cliente B", "subtotal": "100000", "iva": "19000", "total": "119000"},
		domain.Row{"factura": "F-003", "fecha": "2024-02-20", "cliente": "Cliente A", "subtotal": "1000", "iva": "0", "total": "1000", "estado": "pagado"},
	)
	s.ingest("compras.xlsx",
		domain.Row{"factura": "C-001", "fecha": "2024-02-12", "proveedor": "Proveedor X", "subtotal": "300000", "iva": "57000", "total": "357000", "categoria": "Arriendo"},
		domain.Row{"factura": "C-002", "fecha": "2024-03-01", "proveedor": "Proveedor Y", "subtotal": "20000", "iva": "0", "total": "20000", "categoria": "Papelería"},
	)
}

func (s *LedgerIntegrationSuite) TestPurchaseScenarioThroughIngestion() {
	result := s.ingest("compras.xlsx", domain.Row{
		"factura": "C-001", "fecha": "2024-02-12", "proveedor": "Proveedor X",
		"subtotal": "300000", "iva": "57000", "total": "357000", "categoria": "Arriendo",
	})
	s.Equal(domain.DocumentPurchaseInvoice, result.Document.DocType)
	s.Equal(3, result.JournalEntryCount)

	cf, err := s.repos.reports.CashFlow(s.ctx, domain.DateRange{})
	s.Require().NoError(err)
	s.equalAmount("0", cf.Inflow, "inflow")
	s.equalAmount("357000", cf.Outflow, "outflow")
	s.equalAmount("-357000", cf.Net, "net")

	summary, err := s.repos.reports.InvoiceSummary(s.ctx, domain.PurchaseInvoice, domain.DateRange{})
	s.Require().NoError(err)
	s.Equal(int64(1), summary.InvoiceCount)
	s.equalAmount("357000", summary.TotalAmount, "purchase total")

	is, err := s.repos.reports.IncomeStatement(s.ctx, domain.DateRange{})
	s.Require().NoError(err)
	s.equalAmount("300000", is.OperatingExpenses, "operating expenses")
	s.equalAmount("-300000", is.NetIncome, "net income")

	cash, err := s.repos.account.FindAccountByCode(s.ctx, domain.CashAccountCode)
	s.Require().NoError(err)
	s.equalAmount("-357000", cash.Balance, "cash balance")

	s.assertTrialBalanceBalances()
}

func (s *LedgerIntegrationSuite) TestReportsWithData() {
	s.ingestSampleLedger()

	cats, err := s.repos.reports.ExpensesByCategory(s.ctx, domain.DateRange{})
	s.Require().NoError(err)
	s.Require().Len(cats, 2)
	s.Equal("Arriendo", cats[0].Category)
	s.equalAmount("357000", cats[0].Total, "arriendo")
	s.Equal("Papelería", cats[1].Category)
	s.equalAmount("20000", cats[1].Total, "papeleria")

	ts, err := s.repos.reports.TaxSummary(s.ctx, domain.DateRange{})
	s.Require().NoError(err)
	s.equalAmount("171000", ts.TotalTax, "total tax")
	s.equalAmount("114000", ts.SalesTax, "sales tax")
	s.equalAmount("57000", ts.PurchaseTax, "purchase tax")
	s.equalAmount("57000", ts.NetTaxPayable, "net payable")

	aging, err := s.repos.reports.AgingAnalysis(s.ctx, domain.DateRange{}, 10)
	s.Require().NoError(err)
	s.Require().Len(aging, 2)
	s.Equal("Cliente A", aging[0].Counterparty)
	s.Equal(int64(1), aging[0].InvoiceCount)
	s.equalAmount("595000", aging[0].Outstanding, "cliente a")
	s.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), aging[0].LastTransactionDate.UTC())
	s.Equal("Cliente B", aging[1].Counterparty)

	capped, err := s.repos.reports.AgingAnalysis(s.ctx, domain.DateRange{}, 1)
	s.Require().NoError(err)
	s.Len(capped, 1)

	cf, err := s.repos.reports.CashFlow(s.ctx, domain.DateRange{})
	s.Require().NoError(err)
	s.equalAmount("715000", cf.Inflow, "inflow")
	s.equalAmount("377000", cf.Outflow, "outflow")

	trend, err := s.repos.reports.TrendAnalysis(s.ctx,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal([]string{"2024-03", "2024-02", "2024-02"}, trendMonths(trend))
	s.Equal(domain.PurchaseInvoice, trend[1].TransactionType)
	s.equalAmount("357000", trend[1].Total, "february purchases")
	s.equalAmount("120000", trend[2].Total, "february sales")

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	ranged, err := s.repos.reports.InvoiceSummary(s.ctx, domain.SalesInvoice, domain.DateRange{Start: &start})
	s.Require().NoError(err)
	s.Equal(int64(2), ranged.InvoiceCount)
	s.equalAmount("120000", ranged.TotalAmount, "sales since february")

	s.assertTrialBalanceBalances()
}

func trendMonths(points []domain.TrendPoint) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		out = append(out, p.Month)
	}
	return out
}

func (s *LedgerIntegrationSuite) TestStartAfterAllDataReturnsZeros() {
	s.ingestSampleLedger()

	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := domain.DateRange{Start: &start}

	bs, err := s.repos.reports.BalanceSheet(s.ctx, rng)
	s.Require().NoError(err)
	s.True(bs.Assets.IsZero())
	s.True(bs.Liabilities.IsZero())
	s.True(bs.Equity.IsZero())

	is, err := s.repos.reports.IncomeStatement(s.ctx, rng)
	s.Require().NoError(err)
	s.True(is.Revenue.IsZero())
	s.True(is.NetIncome.IsZero())

	for _, t := range []domain.TransactionType{domain.SalesInvoice, domain.PurchaseInvoice} {
		summary, err := s.repos.reports.InvoiceSummary(s.ctx, t, rng)
		s.Require().NoError(err)
		s.Zero(summary.InvoiceCount)
		s.True(summary.TotalAmount.IsZero())
		s.Zero(summary.DistinctCounterparties)
	}

	cats, err := s.repos.reports.ExpensesByCategory(s.ctx, rng)
	s.Require().NoError(err)
	s.Empty(cats)

	cf, err := s.repos.reports.CashFlow(s.ctx, rng)
	s.Require().NoError(err)
	s.True(cf.Inflow.IsZero())
	s.True(cf.Outflow.IsZero())
	s.True(cf.Net.IsZero())

	aging, err := s.repos.reports.AgingAnalysis(s.ctx, rng, 10)
	s.Require().NoError(err)
	s.Empty(aging)

	ts, err := s.repos.reports.TaxSummary(s.ctx, rng)
	s.Require().NoError(err)
	s.True(ts.TotalTax.IsZero())
	s.True(ts.NetTaxPayable.IsZero())

	trend, err := s.repos.reports.TrendAnalysis(s.ctx, start, start.AddDate(0, 6, 0))
	s.Require().NoError(err)
	s.Empty(trend)

	tb, err := s.repos.reports.TrialBalance(s.ctx, rng)
	s.Require().NoError(err)
	s.NotEmpty(tb)
	for _, row := range tb {
		s.True(row.Debit.IsZero(), row.AccountCode)
		s.True(row.Credit.IsZero(), row.AccountCode)
	}
}

func (s *LedgerIntegrationSuite) TestAwkwardAmountsStoreBalanced() {
	result := s.ingest("ventas.csv",
		domain.Row{"factura": "F-1", "fecha": "2024-04-01", "cliente": "A", "subtotal": "1.00005", "iva": "1.00005"},
		domain.Row{"factura": "F-2", "fecha": "2024-04-01", "cliente": "A", "subtotal": "100", "iva": "200", "total": "100"},
		domain.Row{"factura": "NC-1", "fecha": "2024-04-02", "cliente": "A", "subtotal": "-100", "iva": "-19", "total": "-119"},
	)
	s.Len(result.Transactions, 3)
	s.Equal(9, result.JournalEntryCount)

	for _, txn := range result.Transactions {
		entries, err := s.repos.ledger.FindJournalEntriesByTransactionID(s.ctx, txn.ID)
		s.Require().NoError(err)
		s.NoError(accounting.ValidateEntriesBalance(entries), txn.TransactionNumber)
	}
	s.assertTrialBalanceBalances()

	ts, err := s.repos.reports.TaxSummary(s.ctx, domain.DateRange{})
	s.Require().NoError(err)
	s.equalAmount("182.0001", ts.SalesTax, "sales tax net of the credit note")
}
