package pgsql

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
)

// queryArgs accumulates positional arguments for a dynamically built query.
type queryArgs struct {
	args []any
}

// add appends v and returns its placeholder.
func (q *queryArgs) add(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

// dateRangeClause returns " AND column >= $n AND column <= $m" for the bounds
// that are set, or "" for an unbounded range.
func dateRangeClause(column string, r domain.DateRange, q *queryArgs) string {
	var b strings.Builder
	if r.Start != nil {
		fmt.Fprintf(&b, " AND %s >= %s", column, q.add(*r.Start))
	}
	if r.End != nil {
		fmt.Fprintf(&b, " AND %s <= %s", column, q.add(*r.End))
	}
	return b.String()
}
