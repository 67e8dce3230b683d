package services

// ServiceContainer holds instances of all the application services.
// It is built once in main and handed to the handlers and the CLI.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Ingestion IngestionSvcFacade
	Reporting ReportingService
	Assistant AssistantSvcFacade
}
