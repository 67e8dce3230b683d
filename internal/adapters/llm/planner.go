package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
)

const dateLayout = "2006-01-02"

const synthesisPrompt = `You are an accounting assistant for a small business ledger.
Answer the question using only the facts provided as JSON. Amounts are in the ledger currency.
Quote figures exactly, say so when the facts do not cover the question, and answer in the language of the question.`

type plannedReportJSON struct {
	Kind      string `json:"kind"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Months    int    `json:"months"`
	AsOf      string `json:"as_of"`
}

type planJSON struct {
	Reports []plannedReportJSON `json:"reports"`
	Search  bool                `json:"search"`
}

// Plan asks the model which reports answer question.
func (c *Client) Plan(ctx context.Context, question string, kinds []domain.ReportKind) (*domain.QueryPlan, error) {
	content, err := c.complete(ctx, planPrompt(kinds), question, true)
	if err != nil {
		return nil, err
	}
	return ParsePlan(content)
}

// Synthesize phrases an answer from the JSON facts.
func (c *Client) Synthesize(ctx context.Context, question string, facts string) (string, error) {
	text, err := c.complete(ctx, synthesisPrompt, fmt.Sprintf("Question: %s\n\nFacts:\n%s", question, facts), false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func planPrompt(kinds []domain.ReportKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return fmt.Sprintf(`You choose which ledger reports answer a question.
Available reports: %s.
Reply with a JSON object {"reports": [{"kind": "...", "start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD", "months": 0, "as_of": "YYYY-MM-DD"}], "search": true|false}.
Dates are optional; leave them empty when the question names no period. "months" and "as_of" only apply to trend_analysis.
Set "search" when specific invoices, counterparties or document text would help.
Today is %s.`, strings.Join(names, ", "), time.Now().UTC().Format(dateLayout))
}

// ParsePlan decodes a planner reply. Unknown report kinds are dropped; a
// reply naming none of the known reports is an error.
func ParsePlan(content string) (*domain.QueryPlan, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw planJSON
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: planner reply is not valid JSON: %v", apperrors.ErrCollaborator, err)
	}

	plan := &domain.QueryPlan{Search: raw.Search}
	for _, r := range raw.Reports {
		kind, err := domain.ParseReportKind(r.Kind)
		if err != nil {
			continue
		}
		params := domain.ReportParams{
			Range: domain.DateRange{
				Start: parseDate(r.StartDate),
				End:   parseDate(r.EndDate),
			},
			Months: r.Months,
		}
		if asOf := parseDate(r.AsOf); asOf != nil {
			params.AsOf = *asOf
		}
		plan.Reports = append(plan.Reports, domain.PlannedReport{Kind: kind, Params: params})
	}
	if len(plan.Reports) == 0 {
		return nil, fmt.Errorf("%w: planner chose no known report", apperrors.ErrCollaborator)
	}
	return plan, nil
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
