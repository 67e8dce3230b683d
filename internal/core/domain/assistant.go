package domain

// IndexDocument is a text snippet handed to the semantic index.
type IndexDocument struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// SearchResult is a snippet returned by the semantic index.
type SearchResult struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}

// PlannedReport is one report the planner decided to run.
type PlannedReport struct {
	Kind   ReportKind
	Params ReportParams
}

// QueryPlan is the planner's decision for a question.
type QueryPlan struct {
	Reports []PlannedReport
	Search  bool
}

// AssistantAnswer bundles the synthesized answer with the facts it used.
type AssistantAnswer struct {
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Reports  []Report       `json:"reports"`
	Snippets []SearchResult `json:"snippets"`
	Fallback bool           `json:"fallback"`
}
