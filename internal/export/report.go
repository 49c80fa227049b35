package export

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"tracker/internal/core"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Expense Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
h1 { font-size: 1.4rem; }
table { width: 100%; border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #d1d5db; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f3f4f6; }
td.amount, th.amount { text-align: right; }
tr.total td { font-weight: bold; background: #f9fafb; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Expense Report</h1>
<p>Generated {{.GeneratedAt}} &middot; {{.Count}} transactions</p>
<table>
<thead>
<tr><th>Date</th><th>Title</th><th>Category</th><th class="amount">Amount</th><th>Description</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.Title}}</td><td>{{.Category}}</td><td class="amount">{{.Amount}}</td><td>{{.Description}}</td></tr>
{{end}}<tr class="total"><td colspan="3">Total</td><td class="amount">{{.Total}}</td><td></td></tr>
</tbody>
</table>
</body>
</html>
`))

type reportRow struct {
	Date        string
	Title       string
	Category    string
	Amount      string
	Description string
}

type reportData struct {
	GeneratedAt string
	Count       int
	Rows        []reportRow
	Total       string
}

// Report renders a printable HTML report with a closing total row.
func Report(expenses []core.Expense, generatedAt time.Time) (string, error) {
	data := reportData{
		GeneratedAt: generatedAt.Format("2006-01-02 15:04"),
		Count:       len(expenses),
	}
	var total core.Money
	for _, e := range expenses {
		total.Cents += e.Amount.Cents
		data.Rows = append(data.Rows, reportRow{
			Date:        e.Date.String(),
			Title:       e.Title,
			Category:    e.Category,
			Amount:      e.Amount.Fixed2(),
			Description: e.Description,
		})
	}
	data.Total = total.Fixed2()

	var b strings.Builder
	if err := reportTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}
