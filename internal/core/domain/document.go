package domain

import "time"

// DocumentType identifies the kind of source document that was ingested.
type DocumentType string

const (
	DocumentSalesInvoice    DocumentType = "sales_invoice"
	DocumentPurchaseInvoice DocumentType = "purchase_invoice"
	DocumentPDF             DocumentType = "pdf"
)

// Document is an ingested source file. Immutable once stored.
type Document struct {
	ID        int64        `json:"id"`
	Filename  string       `json:"filename"`
	DocType   DocumentType `json:"docType"`
	DocNumber *string      `json:"docNumber,omitempty"`
	Source    string       `json:"source"`
	RawText   *string      `json:"rawText,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
