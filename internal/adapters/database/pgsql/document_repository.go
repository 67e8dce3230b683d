package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_assistant/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDocumentRepository struct {
	BaseRepository
}

func newPgxDocumentRepository(pool *pgxpool.Pool) *PgxDocumentRepository {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepository = (*PgxDocumentRepository)(nil)

// SaveDocumentInTx inserts a document inside the caller's transaction.
func (r *PgxDocumentRepository) SaveDocumentInTx(ctx context.Context, tx pgx.Tx, doc domain.Document) (*domain.Document, error) {
	query := `
		INSERT INTO documents (filename, doc_type, doc_number, source, raw_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at;
	`
	err := tx.QueryRow(ctx, query, doc.Filename, string(doc.DocType), doc.DocNumber, doc.Source, doc.RawText).
		Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err, "failed to insert document "+doc.Filename)
	}
	return &doc, nil
}

// FindDocumentByID retrieves a document by its id.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, id int64) (*domain.Document, error) {
	query := `
		SELECT id, filename, doc_type, doc_number, source, raw_text, created_at, updated_at
		FROM documents WHERE id = $1;
	`
	var doc domain.Document
	var docType string
	err := r.Pool.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.Filename, &docType, &doc.DocNumber, &doc.Source, &doc.RawText, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("document", id)
		}
		return nil, mapPgError(err, "failed to find document")
	}
	doc.DocType = domain.DocumentType(docType)
	return &doc, nil
}
