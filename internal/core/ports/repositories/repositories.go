package repositories

// RepositoryProvider groups the repositories backed by one ledger store.
type RepositoryProvider struct {
	DocumentRepo  DocumentRepository
	LedgerRepo    LedgerRepository
	AccountRepo   AccountRepository
	ReportingRepo ReportingRepository
}
