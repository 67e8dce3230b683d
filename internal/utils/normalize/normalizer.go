// Package normalize turns loosely typed spreadsheet rows into ledger-ready
// transactions. It never fails a row: malformed cells degrade to defaults and
// each correction is reported as a diagnostic.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultCategory is used when a row carries no category.
const DefaultCategory = "General"

// Options configures a normalization run.
type Options struct {
	// Source labels where the rows came from; used only in diagnostics.
	Source   string
	Currency string
	// TaxRate is recorded on lines that carry tax.
	TaxRate decimal.Decimal
	// Today is the date used for rows without a usable date.
	Today time.Time
	// Existing holds transaction numbers already present in the ledger.
	Existing map[string]struct{}
}

// DetectType classifies a batch as sales when any row has a customer column.
func DetectType(rows []domain.Row) domain.TransactionType {
	for _, row := range rows {
		for h := range row {
			if customerColumns[normalizeHeader(h)] {
				return domain.SalesInvoice
			}
		}
	}
	return domain.PurchaseInvoice
}

// Normalize maps rows onto transactions with one line each.
func Normalize(rows []domain.Row, opts Options) domain.NormalizedBatch {
	if opts.Today.IsZero() {
		opts.Today = time.Now()
	}
	opts.Today = truncateDay(opts.Today)

	txType := DetectType(rows)
	numbers := NewNumberRegistry(opts.Existing)
	batch := domain.NormalizedBatch{Type: txType, Records: make([]domain.NormalizedRecord, 0, len(rows))}

	for i, row := range rows {
		batch.Records = append(batch.Records, normalizeRow(i+1, row, txType, numbers, opts))
	}
	return batch
}

type rowNormalizer struct {
	row    int
	fields map[string]any
	diags  []domain.Diagnostic
}

func (n *rowNormalizer) note(field string, value any, format string, args ...any) {
	n.diags = append(n.diags, domain.Diagnostic{
		Row:     n.row,
		Field:   field,
		Value:   asString(value),
		Message: fmt.Sprintf(format, args...),
	})
}

func (n *rowNormalizer) text(field, fallback string) string {
	if s := asString(n.fields[field]); s != "" {
		return s
	}
	return fallback
}

// number returns the parsed field, whether it was present and usable.
func (n *rowNormalizer) number(field string, fallback decimal.Decimal) (decimal.Decimal, bool) {
	raw, present := n.fields[field]
	if !present || isBlank(raw) {
		return fallback, false
	}
	d, err := parseDecimal(raw)
	if err != nil {
		n.note(field, raw, "unparseable number, using %s", fallback.String())
		return fallback, false
	}
	return d, true
}

func normalizeRow(idx int, row domain.Row, txType domain.TransactionType, numbers *NumberRegistry, opts Options) domain.NormalizedRecord {
	fields, _ := canonicalize(row)
	n := &rowNormalizer{row: idx, fields: fields}

	rawNumber := n.text(fieldNumber, "")
	if rawNumber == "" {
		rawNumber = fmt.Sprintf("AUTO-%d", idx)
		n.note(fieldNumber, nil, "missing invoice number, assigned %s", rawNumber)
	}
	number := numbers.Claim(rawNumber)
	if number != rawNumber {
		n.note(fieldNumber, rawNumber, "duplicate invoice number, renamed to %s", number)
	}

	date := opts.Today
	if raw, ok := fields[fieldDate]; ok && !isBlank(raw) {
		parsed, err := parseDate(raw)
		if err != nil {
			n.note(fieldDate, raw, "unparseable date, using %s", opts.Today.Format("2006-01-02"))
		} else {
			date = parsed
		}
	} else {
		n.note(fieldDate, nil, "missing date, using %s", opts.Today.Format("2006-01-02"))
	}

	defaultDescription := "Purchase"
	if txType == domain.SalesInvoice {
		defaultDescription = "Sale"
	}
	counterparty := n.text(fieldCounterparty, "N/A")
	description := n.text(fieldDescription, defaultDescription)
	category := n.text(fieldCategory, DefaultCategory)

	quantity, _ := n.number(fieldQuantity, decimal.NewFromInt(1))
	unitPrice, _ := n.number(fieldUnitPrice, decimal.Zero)
	tax, _ := n.number(fieldTax, decimal.Zero)
	subtotal, hasSubtotal := n.number(fieldSubtotal, decimal.Zero)
	if !hasSubtotal {
		subtotal = quantity.Mul(unitPrice)
	}
	amount, hasTotal := n.number(fieldTotal, decimal.Zero)

	quantity = roundAmount(quantity)
	unitPrice = roundAmount(unitPrice)
	subtotal = roundAmount(subtotal)
	tax = roundAmount(tax)
	amount = roundAmount(amount)

	// A negative total, or a negative subtotal with no total, is a credit
	// note: figures are reconciled as magnitudes and the sign reapplied.
	creditNote := amount.IsNegative() || (!hasTotal && subtotal.IsNegative())
	if creditNote {
		n.note(fieldTotal, amount.String(), "negative amounts, posted as a credit note")
		subtotal, tax, amount = subtotal.Abs(), tax.Abs(), amount.Abs()
	} else {
		if tax.IsNegative() {
			n.note(fieldTax, tax.String(), "negative tax ignored")
			tax = decimal.Zero
		}
		if subtotal.IsNegative() {
			n.note(fieldSubtotal, subtotal.String(), "negative subtotal on a positive total, using %s", subtotal.Abs().String())
			subtotal = subtotal.Abs()
		}
	}

	switch {
	case !hasTotal:
		amount = subtotal.Add(tax)
	case subtotal.Add(tax).Equal(amount):
	case amount.LessThan(tax):
		// The total cannot cover the tax, so the total loses.
		computed := subtotal.Add(tax)
		n.note(fieldTotal, amount.String(), "total is smaller than tax %s, total set to %s", tax.String(), computed.String())
		amount = computed
	default:
		adjusted := amount.Sub(tax)
		if hasSubtotal {
			n.note(fieldSubtotal, subtotal.String(), "subtotal plus tax does not match total %s, subtotal set to %s", amount.String(), adjusted.String())
		}
		subtotal = adjusted
	}

	if creditNote {
		subtotal, tax, amount = subtotal.Neg(), tax.Neg(), amount.Neg()
	}

	taxRate := decimal.Zero
	if !tax.IsZero() {
		taxRate = opts.TaxRate
	}

	status := domain.StatusPending
	if raw := strings.ToLower(n.text(fieldStatus, "")); raw != "" {
		if mapped, ok := statusAliases[raw]; ok {
			status = domain.TransactionStatus(mapped)
		} else {
			n.note(fieldStatus, raw, "unknown status, using %s", domain.StatusPending)
		}
	}

	txn := domain.Transaction{
		TransactionDate:   date,
		TransactionType:   txType,
		TransactionNumber: number,
		Counterparty:      counterparty,
		Description:       description,
		Amount:            amount,
		Currency:          opts.Currency,
		Status:            status,
	}
	if pm := n.text(fieldPaymentMethod, ""); pm != "" {
		txn.PaymentMethod = &pm
	}
	if opts.Source != "" {
		txn.Tags = []string{opts.Source}
	}

	line := domain.TransactionLine{
		LineNumber:  1,
		AccountCode: domain.CashAccountCode,
		AccountName: domain.DefaultAccountName(domain.CashAccountCode),
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    subtotal,
		TaxRate:     taxRate,
		TaxAmount:   tax,
		Category:    category,
	}
	// The line records the cash side of the document; credit notes flip it.
	if (txType == domain.SalesInvoice) != creditNote {
		line.Debit = amount.Abs()
	} else {
		line.Credit = amount.Abs()
	}

	return domain.NormalizedRecord{
		Transaction: txn,
		Lines:       []domain.TransactionLine{line},
		Diagnostics: n.diags,
	}
}

func roundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(domain.AmountScale)
}
