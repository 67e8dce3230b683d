package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is an inclusive date filter. A nil bound is unbounded on that side.
type DateRange struct {
	Start *time.Time `json:"startDate,omitempty"`
	End   *time.Time `json:"endDate,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// BalanceSheet summarises the accounting equation sides.
type BalanceSheet struct {
	Assets               decimal.Decimal `json:"assets"`
	Liabilities          decimal.Decimal `json:"liabilities"`
	Equity               decimal.Decimal `json:"equity"`
	LiabilitiesAndEquity decimal.Decimal `json:"liabilitiesAndEquity"`
}

// IncomeStatement is the profit and loss for a period.
type IncomeStatement struct {
	Revenue           decimal.Decimal `json:"revenue"`
	CostOfSales       decimal.Decimal `json:"costOfSales"`
	GrossProfit       decimal.Decimal `json:"grossProfit"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
	NetIncome         decimal.Decimal `json:"netIncome"`
}

// InvoiceSummary aggregates the invoices of one transaction type.
type InvoiceSummary struct {
	TransactionType        TransactionType `json:"transactionType"`
	InvoiceCount           int64           `json:"invoiceCount"`
	TotalAmount            decimal.Decimal `json:"totalAmount"`
	AverageAmount          decimal.Decimal `json:"averageAmount"`
	MinAmount              decimal.Decimal `json:"minAmount"`
	MaxAmount              decimal.Decimal `json:"maxAmount"`
	DistinctCounterparties int64           `json:"distinctCounterparties"`
}

// CategoryTotal is one row of the expenses-by-category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// ExpenseBreakdown is the expenses-by-category report. Truncated is set when
// categories beyond the row cap were left out.
type ExpenseBreakdown struct {
	Categories []CategoryTotal `json:"categories"`
	Truncated  bool            `json:"truncated"`
}

// CashFlow compares money in and out.
type CashFlow struct {
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// AgingRow is the outstanding receivable position of one counterparty.
type AgingRow struct {
	Counterparty        string          `json:"counterparty"`
	InvoiceCount        int64           `json:"invoiceCount"`
	Outstanding         decimal.Decimal `json:"outstanding"`
	LastTransactionDate time.Time       `json:"lastTransactionDate"`
}

// AgingReport lists outstanding receivables, capped like ExpenseBreakdown.
type AgingReport struct {
	Rows      []AgingRow `json:"rows"`
	Truncated bool       `json:"truncated"`
}

// TaxSummary totals tax on lines.
type TaxSummary struct {
	TotalTax      decimal.Decimal `json:"totalTax"`
	SalesTax      decimal.Decimal `json:"salesTax"`
	PurchaseTax   decimal.Decimal `json:"purchaseTax"`
	NetTaxPayable decimal.Decimal `json:"netTaxPayable"`
}

// ProfitMargin holds margins as percentages of revenue.
type ProfitMargin struct {
	GrossMargin decimal.Decimal `json:"grossMargin"`
	NetMargin   decimal.Decimal `json:"netMargin"`
}

// TrendPoint is the total of one transaction type in one month (YYYY-MM).
type TrendPoint struct {
	Month           string          `json:"month"`
	TransactionType TransactionType `json:"transactionType"`
	Total           decimal.Decimal `json:"total"`
}

// TrialBalanceRow represents a single row in the trial balance report.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerStatus reports how much data the ledger holds.
type LedgerStatus struct {
	Documents      int64 `json:"documents"`
	Transactions   int64 `json:"transactions"`
	JournalEntries int64 `json:"journalEntries"`
	Accounts       int64 `json:"accounts"`
	IsEmpty        bool  `json:"isEmpty"`
	HasData        bool  `json:"hasData"`
}
