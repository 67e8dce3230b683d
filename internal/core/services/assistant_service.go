package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
)

// DefaultRetrieverK is the number of snippets fetched per search.
const DefaultRetrieverK = 4

// EmptyLedgerAnswer is returned without consulting the model when nothing has been ingested.
const EmptyLedgerAnswer = "The ledger has no data yet. Upload a sales or purchase spreadsheet (.xlsx or .csv, " +
	"columns such as fecha, factura, cliente/proveedor, subtotal, iva, total) or a PDF before asking questions."

// assistantService implements the AssistantSvcFacade interface
type assistantService struct {
	BaseService
	reporting portssvc.ReportingService
	index     portssvc.DocumentIndex
	planner   portssvc.Planner
	k         int
}

// AssistantServiceOption is a functional option for configuring the assistant service
type AssistantServiceOption func(*assistantService)

// WithSearchIndex sets the index used for document snippets.
func WithSearchIndex(index portssvc.DocumentIndex) AssistantServiceOption {
	return func(s *assistantService) {
		s.index = index
	}
}

// WithPlanner sets the language-model collaborator.
func WithPlanner(planner portssvc.Planner) AssistantServiceOption {
	return func(s *assistantService) {
		s.planner = planner
	}
}

// WithRetrieverK sets the default number of snippets per search.
func WithRetrieverK(k int) AssistantServiceOption {
	return func(s *assistantService) {
		if k > 0 {
			s.k = k
		}
	}
}

// NewAssistantService creates a new assistant service with the provided options
func NewAssistantService(reporting portssvc.ReportingService, options ...AssistantServiceOption) portssvc.AssistantSvcFacade {
	svc := &assistantService{
		reporting: reporting,
		k:         DefaultRetrieverK,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AssistantSvcFacade = (*assistantService)(nil)

// fallbackPlan answers a question about the overall financial position.
func fallbackPlan() *domain.QueryPlan {
	return &domain.QueryPlan{
		Reports: []domain.PlannedReport{
			{Kind: domain.ReportBalanceSheet},
			{Kind: domain.ReportIncomeStatement},
		},
		Search: true,
	}
}

// Search returns the k snippets closest to query. Index failures yield no results.
func (s *assistantService) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", apperrors.ErrValidation)
	}
	if k <= 0 {
		k = s.k
	}
	if s.index == nil {
		return []domain.SearchResult{}, nil
	}
	results, err := s.index.Search(ctx, query, k)
	if err != nil {
		s.LogWarn(ctx, "Document search failed", slog.String("error", err.Error()))
		return []domain.SearchResult{}, nil
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, nil
}

// Ask plans which reports answer question, runs them, and phrases an answer.
func (s *assistantService) Ask(ctx context.Context, question string) (*domain.AssistantAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", apperrors.ErrValidation)
	}

	answer := &domain.AssistantAnswer{
		Question: question,
		Reports:  []domain.Report{},
		Snippets: []domain.SearchResult{},
	}

	status, err := s.reporting.Status(ctx)
	if err != nil {
		return nil, err
	}
	if status.IsEmpty {
		answer.Answer = EmptyLedgerAnswer
		return answer, nil
	}

	plan := s.plan(ctx, question)
	for _, planned := range plan.Reports {
		req := domain.NewReportRequest(planned.Kind, planned.Params)
		if req == nil {
			s.LogWarn(ctx, "Planner chose an unknown report", slog.String("kind", string(planned.Kind)))
			continue
		}
		report, err := s.reporting.Run(ctx, req)
		if err != nil {
			return nil, err
		}
		answer.Reports = append(answer.Reports, *report)
	}

	if plan.Search {
		answer.Snippets, _ = s.Search(ctx, question, s.k)
	}

	facts := renderFacts(status, answer.Reports, answer.Snippets)
	if s.planner != nil {
		text, err := s.planner.Synthesize(ctx, question, facts)
		if err == nil && strings.TrimSpace(text) != "" {
			answer.Answer = text
			return answer, nil
		}
		if err != nil {
			s.LogWarn(ctx, "Answer synthesis failed, returning structured results", slog.String("error", err.Error()))
		}
	}

	answer.Fallback = true
	answer.Answer = "Structured results for your question:\n" + facts
	return answer, nil
}

func (s *assistantService) plan(ctx context.Context, question string) *domain.QueryPlan {
	if s.planner == nil {
		return fallbackPlan()
	}
	plan, err := s.planner.Plan(ctx, question, domain.ReportKinds())
	if err != nil {
		s.LogWarn(ctx, "Query planning failed, using fallback plan", slog.String("error", err.Error()))
		return fallbackPlan()
	}
	if plan == nil || len(plan.Reports) == 0 {
		fb := fallbackPlan()
		if plan != nil {
			fb.Search = plan.Search
		}
		return fb
	}
	return plan
}

// renderFacts serialises what the answer may draw on.
func renderFacts(status *domain.LedgerStatus, reports []domain.Report, snippets []domain.SearchResult) string {
	payload := struct {
		Status   *domain.LedgerStatus  `json:"status"`
		Reports  []domain.Report       `json:"reports"`
		Snippets []domain.SearchResult `json:"snippets,omitempty"`
	}{status, reports, snippets}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", payload)
	}
	return string(b)
}
