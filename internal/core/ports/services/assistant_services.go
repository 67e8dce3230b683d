package services

import (
	"context"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
)

// DocumentIndex is the semantic index the ledger feeds and the assistant queries.
type DocumentIndex interface {
	Add(ctx context.Context, docs []domain.IndexDocument) error
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}

// Planner is the language-model collaborator.
type Planner interface {
	// Plan picks the reports that answer question.
	Plan(ctx context.Context, question string, kinds []domain.ReportKind) (*domain.QueryPlan, error)
	// Synthesize phrases an answer from the collected facts.
	Synthesize(ctx context.Context, question string, facts string) (string, error)
}

// AssistantSvcFacade answers questions over the ledger.
type AssistantSvcFacade interface {
	Ask(ctx context.Context, question string) (*domain.AssistantAnswer, error)
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}
