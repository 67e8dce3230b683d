package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
)

const dateLayout = "2006-01-02"

// ReportQuery holds the query parameters accepted by every report.
// Months and AsOf only apply to trend_analysis.
type ReportQuery struct {
	StartDate string `form:"startDate" binding:"omitempty,isodate"`
	EndDate   string `form:"endDate" binding:"omitempty,isodate"`
	Months    int    `form:"months" binding:"omitempty,min=1,max=120"`
	AsOf      string `form:"asOf" binding:"omitempty,isodate"`
}

// ToParams converts the query into report parameters.
func (q ReportQuery) ToParams() (domain.ReportParams, error) {
	var p domain.ReportParams
	var err error
	if p.Range.Start, err = parseOptionalDate(q.StartDate); err != nil {
		return p, err
	}
	if p.Range.End, err = parseOptionalDate(q.EndDate); err != nil {
		return p, err
	}
	if p.Range.Start != nil && p.Range.End != nil && p.Range.End.Before(*p.Range.Start) {
		return p, fmt.Errorf("endDate must not be before startDate")
	}
	asOf, err := parseOptionalDate(q.AsOf)
	if err != nil {
		return p, err
	}
	if asOf != nil {
		p.AsOf = *asOf
	}
	p.Months = q.Months
	return p, nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return &t, nil
}

// SearchQuery holds the parameters of a semantic search.
type SearchQuery struct {
	Q string `form:"q" binding:"required"`
	K int    `form:"k" binding:"omitempty,min=1,max=50"`
}

// SearchResponse lists matching snippets.
type SearchResponse struct {
	Results []domain.SearchResult `json:"results"`
}

// AskRequest is a natural-language question about the ledger.
type AskRequest struct {
	Question string `json:"question" binding:"required,max=2000"`
}
