package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_assistant/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		DocumentRepo:  newPgxDocumentRepository(dbPool),
		LedgerRepo:    newPgxLedgerRepository(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
	}
}
