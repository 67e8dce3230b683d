package domain

// Row is one loosely typed record from a spreadsheet or API payload.
type Row map[string]any

// Diagnostic records a best-effort correction applied while normalizing a row.
type Diagnostic struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// NormalizedRecord is a transaction ready for the ledger, with its lines.
type NormalizedRecord struct {
	Transaction Transaction
	Lines       []TransactionLine
	Diagnostics []Diagnostic
}

// NormalizedBatch is the normalizer output for one source.
type NormalizedBatch struct {
	Type    TransactionType
	Records []NormalizedRecord
}

// Diagnostics flattens the diagnostics of every record.
func (b NormalizedBatch) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, r := range b.Records {
		out = append(out, r.Diagnostics...)
	}
	return out
}

// IngestionResult summarises one committed document.
type IngestionResult struct {
	Document          Document      `json:"document"`
	Transactions      []Transaction `json:"transactions"`
	JournalEntryCount int           `json:"journalEntryCount"`
	Diagnostics       []Diagnostic  `json:"diagnostics"`
	Warnings          []string      `json:"warnings"`
	Indexed           bool          `json:"indexed"`
}

// IngestRowsInput is a spreadsheet-like batch to ingest as one document.
type IngestRowsInput struct {
	Filename string
	Source   string
	Rows     []Row
}

// IngestPDFInput carries already extracted page texts of a PDF.
type IngestPDFInput struct {
	Filename string
	Source   string
	Pages    []string
}
