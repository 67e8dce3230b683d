package services

import (
	portsrepo "github.com/SscSPs/ledger_assistant/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/platform/config"
)

// Collaborators are the optional adapters the services talk to.
type Collaborators struct {
	Index   portssvc.DocumentIndex
	Planner portssvc.Planner
	Locker  portssvc.Locker
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, c Collaborators) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, WithAccountCurrency(cfg.DefaultCurrency))

	container.Ingestion = NewIngestionService(
		repos.DocumentRepo,
		repos.LedgerRepo,
		repos.AccountRepo,
		WithIngestionCurrency(cfg.DefaultCurrency),
		WithTaxRate(cfg.TaxRate),
		WithDocumentIndex(c.Index),
		WithLocker(c.Locker),
	)

	container.Reporting = NewReportingService(repos.ReportingRepo, WithMaxReportRows(cfg.MaxReportRows))

	container.Assistant = NewAssistantService(
		container.Reporting,
		WithSearchIndex(c.Index),
		WithPlanner(c.Planner),
		WithRetrieverK(cfg.RetrieverK),
	)

	return container
}
