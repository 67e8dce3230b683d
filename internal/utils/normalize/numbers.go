package normalize

import (
	"fmt"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
)

// NumberRegistry hands out ledger-unique transaction numbers, suffixing
// collisions with -DUP1, -DUP2, ...
type NumberRegistry struct {
	used map[string]struct{}
}

// NewNumberRegistry seeds the registry with numbers already in the ledger.
func NewNumberRegistry(existing map[string]struct{}) *NumberRegistry {
	used := make(map[string]struct{}, len(existing))
	for k := range existing {
		used[k] = struct{}{}
	}
	return &NumberRegistry{used: used}
}

// Claim reserves number, or the first free -DUP{n} variant of it.
func (r *NumberRegistry) Claim(number string) string {
	candidate := number
	for n := 1; ; n++ {
		if _, taken := r.used[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s-DUP%d", number, n)
	}
	r.used[candidate] = struct{}{}
	return candidate
}

// CollisionPatterns returns LIKE patterns matching the -DUP variants of numbers,
// so a store can load only the relevant part of the ledger.
func CollisionPatterns(numbers []string) []string {
	patterns := make([]string, 0, len(numbers))
	for _, n := range numbers {
		patterns = append(patterns, escapeLike(n)+`-DUP%`)
	}
	return patterns
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// RawNumbers lists the invoice numbers rows would claim before deduplication.
func RawNumbers(rows []domain.Row) []string {
	numbers := make([]string, 0, len(rows))
	for i, row := range rows {
		fields, _ := canonicalize(row)
		n := asString(fields[fieldNumber])
		if n == "" {
			n = fmt.Sprintf("AUTO-%d", i+1)
		}
		numbers = append(numbers, n)
	}
	return numbers
}
