package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"595000", "595000"},
		{"$595,000.00", "595000"},
		{"595.000,50", "595000.5"},
		{"1,234,567", "1234567"},
		{"1.234.567", "1234567"},
		{"12,5", "12.5"},
		{"12,500", "12500"},
		{"(1,000.00)", "-1000"},
		{" COP 19 ", "19"},
		{42, "42"},
		{int64(7), "7"},
		{10.25, "10.25"},
	}

	for _, tt := range tests {
		got, err := parseDecimal(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got.String(), "%v", tt.in)
	}

	for _, bad := range []any{"", nil, "abc", "--"} {
		_, err := parseDecimal(bad)
		assert.Error(t, err, "%v", bad)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	for _, in := range []any{"2025-01-15", "2025/01/15", "15/01/2025", "2025-01-15 08:00:00", 45672.0, "45672", want.Add(5 * time.Hour)} {
		got, err := parseDate(in)
		require.NoError(t, err, "%v", in)
		assert.Equal(t, want, got, "%v", in)
	}

	for _, bad := range []any{"", "yesterday", 0.0, "99999999"} {
		_, err := parseDate(bad)
		assert.Error(t, err, "%v", bad)
	}
}

func TestNumberRegistry(t *testing.T) {
	r := NewNumberRegistry(map[string]struct{}{"A": {}})

	assert.Equal(t, "A-DUP1", r.Claim("A"))
	assert.Equal(t, "A-DUP2", r.Claim("A"))
	assert.Equal(t, "B", r.Claim("B"))
	assert.Equal(t, "B-DUP1", r.Claim("B"))
}
