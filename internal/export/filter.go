// Package export turns an expense collection into downloadable artifacts:
// filtered views, CSV files, and a printable HTML report.
package export

import (
	"strings"

	"tracker/internal/core"
)

// Filter narrows an expense list. Zero-valued fields match everything.
type Filter struct {
	Search    string     // substring of title or description, case-insensitive
	Category  string     // exact category match
	From      *core.Date // inclusive lower date bound
	To        *core.Date // inclusive upper date bound
	MinAmount *core.Money
	MaxAmount *core.Money
}

// Apply returns the expenses matching every set criterion, preserving the
// input order.
func (f Filter) Apply(expenses []core.Expense) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filter) matches(e core.Expense) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) {
			return false
		}
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.From != nil && e.Date.Before(f.From.Time) {
		return false
	}
	if f.To != nil && e.Date.After(f.To.Time) {
		return false
	}
	if f.MinAmount != nil && e.Amount.Cents < f.MinAmount.Cents {
		return false
	}
	if f.MaxAmount != nil && e.Amount.Cents > f.MaxAmount.Cents {
		return false
	}
	return true
}
