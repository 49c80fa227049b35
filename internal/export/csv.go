package export

import (
	"strings"

	"tracker/internal/core"
)

const csvHeader = "Date,Title,Category,Amount,Description"

// CSV renders the expenses as a CSV document. Title and description are
// always quoted since they carry free text; date, category and amount are
// written bare to match the historical export format.
func CSV(expenses []core.Expense) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')
	for _, e := range expenses {
		b.WriteString(e.Date.String())
		b.WriteByte(',')
		b.WriteString(quote(e.Title))
		b.WriteByte(',')
		b.WriteString(e.Category)
		b.WriteByte(',')
		b.WriteString(e.Amount.Decimal())
		b.WriteByte(',')
		b.WriteString(quote(e.Description))
		b.WriteByte('\n')
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
