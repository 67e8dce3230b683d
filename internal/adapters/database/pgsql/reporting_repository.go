package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_assistant/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) *reportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// BalanceSheet sums journal entries by the leading digit of the account code.
func (r *reportingRepository) BalanceSheet(ctx context.Context, rng domain.DateRange) (*domain.BalanceSheet, error) {
	q := &queryArgs{}
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN account_code LIKE '1%' THEN debit - credit ELSE 0 END), 0) AS assets,
			COALESCE(SUM(CASE WHEN account_code LIKE '2%' THEN credit - debit ELSE 0 END), 0) AS liabilities,
			COALESCE(SUM(CASE WHEN account_code LIKE '3%' THEN credit - debit ELSE 0 END), 0) AS equity
		FROM journal_entries
		WHERE 1=1` + dateRangeClause("entry_date", rng, q)

	var bs domain.BalanceSheet
	if err := r.Pool.QueryRow(ctx, query, q.args...).Scan(&bs.Assets, &bs.Liabilities, &bs.Equity); err != nil {
		return nil, fmt.Errorf("error querying balance sheet: %w", mapPgError(err, "balance sheet"))
	}
	bs.LiabilitiesAndEquity = bs.Liabilities.Add(bs.Equity)
	return &bs, nil
}

// IncomeStatement sums revenue, cost of sales and operating expenses.
func (r *reportingRepository) IncomeStatement(ctx context.Context, rng domain.DateRange) (*domain.IncomeStatement, error) {
	q := &queryArgs{}
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN account_code LIKE '4%' THEN credit - debit ELSE 0 END), 0) AS revenue,
			COALESCE(SUM(CASE WHEN account_code LIKE '5%' THEN debit - credit ELSE 0 END), 0) AS cost_of_sales,
			COALESCE(SUM(CASE WHEN account_code LIKE '6%' THEN debit - credit ELSE 0 END), 0) AS operating_expenses
		FROM journal_entries
		WHERE 1=1` + dateRangeClause("entry_date", rng, q)

	var is domain.IncomeStatement
	if err := r.Pool.QueryRow(ctx, query, q.args...).Scan(&is.Revenue, &is.CostOfSales, &is.OperatingExpenses); err != nil {
		return nil, fmt.Errorf("error querying income statement: %w", mapPgError(err, "income statement"))
	}
	is.GrossProfit = is.Revenue.Sub(is.CostOfSales)
	is.NetIncome = is.GrossProfit.Sub(is.OperatingExpenses)
	return &is, nil
}

// InvoiceSummary aggregates the transactions of one type.
func (r *reportingRepository) InvoiceSummary(ctx context.Context, t domain.TransactionType, rng domain.DateRange) (*domain.InvoiceSummary, error) {
	q := &queryArgs{}
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(amount), 0),
			COALESCE(ROUND(AVG(amount), 4), 0),
			COALESCE(MIN(amount), 0),
			COALESCE(MAX(amount), 0),
			COUNT(DISTINCT counterparty)
		FROM transactions
		WHERE transaction_type = ` + q.add(string(t)) + dateRangeClause("transaction_date", rng, q)

	s := domain.InvoiceSummary{TransactionType: t}
	err := r.Pool.QueryRow(ctx, query, q.args...).Scan(
		&s.InvoiceCount, &s.TotalAmount, &s.AverageAmount, &s.MinAmount, &s.MaxAmount, &s.DistinctCounterparties,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying %s summary: %w", t, mapPgError(err, "invoice summary"))
	}
	return &s, nil
}

// ExpensesByCategory sums credited line amounts per category, largest first.
func (r *reportingRepository) ExpensesByCategory(ctx context.Context, rng domain.DateRange) ([]domain.CategoryTotal, error) {
	q := &queryArgs{}
	query := `
		SELECT tl.category, SUM(tl.credit) AS total
		FROM transaction_lines tl
		JOIN transactions t ON t.id = tl.transaction_id
		WHERE tl.credit > 0` + dateRangeClause("t.transaction_date", rng, q) + `
		GROUP BY tl.category
		ORDER BY total DESC, tl.category`

	rows, err := r.Pool.Query(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error querying expenses by category: %w", mapPgError(err, "expenses by category"))
	}
	defer rows.Close()

	result := []domain.CategoryTotal{}
	for rows.Next() {
		var row domain.CategoryTotal
		if err := rows.Scan(&row.Category, &row.Total); err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return result, nil
}

// CashFlow compares sales inflow with purchase outflow.
func (r *reportingRepository) CashFlow(ctx context.Context, rng domain.DateRange) (*domain.CashFlow, error) {
	q := &queryArgs{}
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN transaction_type = 'sales_invoice' THEN amount ELSE 0 END), 0) AS inflow,
			COALESCE(SUM(CASE WHEN transaction_type = 'purchase_invoice' THEN amount ELSE 0 END), 0) AS outflow
		FROM transactions
		WHERE 1=1` + dateRangeClause("transaction_date", rng, q)

	var cf domain.CashFlow
	if err := r.Pool.QueryRow(ctx, query, q.args...).Scan(&cf.Inflow, &cf.Outflow); err != nil {
		return nil, fmt.Errorf("error querying cash flow: %w", mapPgError(err, "cash flow"))
	}
	cf.Net = cf.Inflow.Sub(cf.Outflow)
	return &cf, nil
}

// AgingAnalysis lists counterparties with pending sales, largest balance first.
func (r *reportingRepository) AgingAnalysis(ctx context.Context, rng domain.DateRange, limit int) ([]domain.AgingRow, error) {
	q := &queryArgs{}
	query := `
		SELECT counterparty, COUNT(*), SUM(amount) AS outstanding, MAX(transaction_date)
		FROM transactions
		WHERE transaction_type = 'sales_invoice' AND status = 'pending'` + dateRangeClause("transaction_date", rng, q) + `
		GROUP BY counterparty
		ORDER BY outstanding DESC, counterparty
		LIMIT ` + q.add(limit)

	rows, err := r.Pool.Query(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error querying aging analysis: %w", mapPgError(err, "aging analysis"))
	}
	defer rows.Close()

	result := []domain.AgingRow{}
	for rows.Next() {
		var row domain.AgingRow
		if err := rows.Scan(&row.Counterparty, &row.InvoiceCount, &row.Outstanding, &row.LastTransactionDate); err != nil {
			return nil, fmt.Errorf("error scanning aging row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aging rows: %w", err)
	}
	return result, nil
}

// TaxSummary totals line tax split by transaction type.
func (r *reportingRepository) TaxSummary(ctx context.Context, rng domain.DateRange) (*domain.TaxSummary, error) {
	q := &queryArgs{}
	query := `
		SELECT
			COALESCE(SUM(tl.tax_amount), 0),
			COALESCE(SUM(CASE WHEN t.transaction_type = 'sales_invoice' THEN tl.tax_amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN t.transaction_type = 'purchase_invoice' THEN tl.tax_amount ELSE 0 END), 0)
		FROM transaction_lines tl
		JOIN transactions t ON t.id = tl.transaction_id
		WHERE 1=1` + dateRangeClause("t.transaction_date", rng, q)

	var ts domain.TaxSummary
	if err := r.Pool.QueryRow(ctx, query, q.args...).Scan(&ts.TotalTax, &ts.SalesTax, &ts.PurchaseTax); err != nil {
		return nil, fmt.Errorf("error querying tax summary: %w", mapPgError(err, "tax summary"))
	}
	ts.NetTaxPayable = ts.SalesTax.Sub(ts.PurchaseTax)
	return &ts, nil
}

// TrendAnalysis buckets amounts by month and type between since and until, newest first.
func (r *reportingRepository) TrendAnalysis(ctx context.Context, since, until time.Time) ([]domain.TrendPoint, error) {
	query := `
		SELECT to_char(transaction_date, 'YYYY-MM') AS month, transaction_type, SUM(amount)
		FROM transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
		GROUP BY month, transaction_type
		ORDER BY month DESC, transaction_type`

	rows, err := r.Pool.Query(ctx, query, since, until)
	if err != nil {
		return nil, fmt.Errorf("error querying trend analysis: %w", mapPgError(err, "trend analysis"))
	}
	defer rows.Close()

	result := []domain.TrendPoint{}
	for rows.Next() {
		var p domain.TrendPoint
		var txType string
		if err := rows.Scan(&p.Month, &txType, &p.Total); err != nil {
			return nil, fmt.Errorf("error scanning trend row: %w", err)
		}
		p.TransactionType = domain.TransactionType(txType)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trend rows: %w", err)
	}
	return result, nil
}

// TrialBalance lists debit and credit totals for every account.
func (r *reportingRepository) TrialBalance(ctx context.Context, rng domain.DateRange) ([]domain.TrialBalanceRow, error) {
	q := &queryArgs{}
	query := `
		SELECT
			a.code,
			a.name,
			a.account_type,
			COALESCE(SUM(je.debit), 0) AS total_debit,
			COALESCE(SUM(je.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN journal_entries je ON je.account_code = a.code` + dateRangeClause("je.entry_date", rng, q) + `
		GROUP BY a.code, a.name, a.account_type
		ORDER BY a.code`

	rows, err := r.Pool.Query(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", mapPgError(err, "trial balance"))
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		if err := rows.Scan(&row.AccountCode, &row.AccountName, &accountType, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		if row.AccountType.IsDebitNormal() {
			row.Balance = row.Debit.Sub(row.Credit)
		} else {
			row.Balance = row.Credit.Sub(row.Debit)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

// LedgerStatus counts the rows of each ledger table.
func (r *reportingRepository) LedgerStatus(ctx context.Context) (*domain.LedgerStatus, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COUNT(*) FROM journal_entries),
			(SELECT COUNT(*) FROM accounts)`

	var s domain.LedgerStatus
	if err := r.Pool.QueryRow(ctx, query).Scan(&s.Documents, &s.Transactions, &s.JournalEntries, &s.Accounts); err != nil {
		return nil, fmt.Errorf("error querying ledger status: %w", mapPgError(err, "ledger status"))
	}
	s.IsEmpty = s.Documents == 0 && s.Transactions == 0
	s.HasData = s.Transactions > 0
	return &s, nil
}
