package pgsql

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDateRangeClause(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("unbounded", func(t *testing.T) {
		q := &queryArgs{}
		assert.Equal(t, "", dateRangeClause("entry_date", domain.DateRange{}, q))
		assert.Empty(t, q.args)
	})

	t.Run("both bounds continue numbering", func(t *testing.T) {
		q := &queryArgs{}
		first := q.add("sales_invoice")
		clause := dateRangeClause("t.transaction_date", domain.DateRange{Start: &start, End: &end}, q)
		assert.Equal(t, "$1", first)
		assert.Equal(t, " AND t.transaction_date >= $2 AND t.transaction_date <= $3", clause)
		assert.Equal(t, []any{"sales_invoice", start, end}, q.args)
	})

	t.Run("end only", func(t *testing.T) {
		q := &queryArgs{}
		clause := dateRangeClause("entry_date", domain.DateRange{End: &end}, q)
		assert.Equal(t, " AND entry_date <= $1", clause)
	})
}
