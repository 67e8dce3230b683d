package repositories

import (
	"context"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// DocumentRepository stores ingested source documents.
type DocumentRepository interface {
	TransactionManager
	// SaveDocumentInTx inserts a document and returns it with its id and timestamps.
	SaveDocumentInTx(ctx context.Context, tx pgx.Tx, doc domain.Document) (*domain.Document, error)
	FindDocumentByID(ctx context.Context, id int64) (*domain.Document, error)
}
