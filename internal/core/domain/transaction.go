package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places money columns are stored with.
const AmountScale int32 = 4

// TransactionType classifies a commercial transaction.
type TransactionType string

const (
	SalesInvoice    TransactionType = "sales_invoice"
	PurchaseInvoice TransactionType = "purchase_invoice"
)

// DocumentType returns the document type matching the transaction type.
func (t TransactionType) DocumentType() DocumentType {
	if t == SalesInvoice {
		return DocumentSalesInvoice
	}
	return DocumentPurchaseInvoice
}

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
)

// Transaction is one commercial event derived from a source row.
// Amount is the gross total (subtotal + tax).
type Transaction struct {
	ID                int64             `json:"id"`
	DocumentID        *int64            `json:"documentID,omitempty"`
	TransactionDate   time.Time         `json:"transactionDate"`
	TransactionType   TransactionType   `json:"transactionType"`
	TransactionNumber string            `json:"transactionNumber"`
	Counterparty      string            `json:"counterparty"`
	Description       string            `json:"description"`
	Amount            decimal.Decimal   `json:"amount"`
	Currency          string            `json:"currency"`
	PaymentMethod     *string           `json:"paymentMethod,omitempty"`
	Status            TransactionStatus `json:"status"`
	Tags              []string          `json:"tags,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// TransactionLine holds the commercial detail of a transaction.
// Exactly one of Debit and Credit is non-zero.
type TransactionLine struct {
	ID            int64           `json:"id"`
	TransactionID int64           `json:"transactionID"`
	LineNumber    int             `json:"lineNumber"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Category      string          `json:"category"`
}

// LineTotals sums subtotal and tax across lines.
func LineTotals(lines []TransactionLine) (subtotal, tax decimal.Decimal) {
	subtotal, tax = decimal.Zero, decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
		tax = tax.Add(l.TaxAmount)
	}
	return subtotal, tax
}
