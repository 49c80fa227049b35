package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// Breakdown is an ordered mapping from a grouping label (category or month)
// to a summed amount. It marshals to a JSON object in insertion order so the
// API output stays deterministic.
type Breakdown struct {
	entries []BreakdownEntry
	index   map[string]int
}

type BreakdownEntry struct {
	Label  string
	Amount Money
}

func NewBreakdown() *Breakdown {
	return &Breakdown{index: make(map[string]int)}
}

// Add accumulates amount under label, creating the entry on first use.
func (b *Breakdown) Add(label string, amount Money) {
	if i, ok := b.index[label]; ok {
		b.entries[i].Amount.Cents += amount.Cents
		return
	}
	b.index[label] = len(b.entries)
	b.entries = append(b.entries, BreakdownEntry{Label: label, Amount: amount})
}

func (b *Breakdown) Get(label string) (Money, bool) {
	if b == nil || b.index == nil {
		return Money{}, false
	}
	i, ok := b.index[label]
	if !ok {
		return Money{}, false
	}
	return b.entries[i].Amount, true
}

func (b *Breakdown) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Entries returns a copy of the entries in insertion order.
func (b *Breakdown) Entries() []BreakdownEntry {
	if b == nil {
		return nil
	}
	out := make([]BreakdownEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Total sums all entry amounts.
func (b *Breakdown) Total() Money {
	var total Money
	if b == nil {
		return total
	}
	for _, e := range b.entries {
		total.Cents += e.Amount.Cents
	}
	return total
}

func (b *Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(e.Amount.Decimal())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *Breakdown) UnmarshalJSON(data []byte) error {
	raw := map[string]Money{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Breakdown{index: make(map[string]int)}
	labels := make([]string, 0, len(raw))
	for label := range raw {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		b.Add(label, raw[label])
	}
	return nil
}

// ExpenseStats is derived from the live expense collection on every read;
// nothing here is persisted.
type ExpenseStats struct {
	TotalExpenses     Money      `json:"totalExpenses"`
	MonthlyExpenses   Money      `json:"monthlyExpenses"`
	CategoryCount     int        `json:"categoryCount"`
	TransactionCount  int        `json:"transactionCount"`
	CategoryBreakdown *Breakdown `json:"categoryBreakdown"`
	YearlyBreakdown   *Breakdown `json:"yearlyBreakdown"`
}

const monthLabelLayout = "Jan 2006"

// ComputeStats reduces the expense collection in a single pass: overall
// total, total for the calendar month containing now, per-category sums and
// per-month sums. CategoryCount counts distinct category strings observed,
// not entries of the defined Category set.
func ComputeStats(expenses []Expense, now time.Time) ExpenseStats {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	stats := ExpenseStats{
		TransactionCount:  len(expenses),
		CategoryBreakdown: NewBreakdown(),
		YearlyBreakdown:   NewBreakdown(),
	}
	for _, e := range expenses {
		stats.TotalExpenses.Cents += e.Amount.Cents
		if !e.Date.Before(monthStart) && e.Date.Before(monthEnd) {
			stats.MonthlyExpenses.Cents += e.Amount.Cents
		}
		stats.CategoryBreakdown.Add(e.Category, e.Amount)
		stats.YearlyBreakdown.Add(e.Date.Format(monthLabelLayout), e.Amount)
	}
	stats.CategoryCount = stats.CategoryBreakdown.Len()
	return stats
}

// MonthRow is one bar group of the salary-vs-expenses chart.
type MonthRow struct {
	Month     string `json:"month"`
	Expenses  Money  `json:"expenses"`
	Salary    Money  `json:"salary"`
	Remaining Money  `json:"remaining"`
}

// MonthlySeries returns twelve rows, January through December of now's year,
// with Remaining clamped at zero when expenses exceed the salary.
func MonthlySeries(expenses []Expense, salary Money, now time.Time) []MonthRow {
	var perMonth [12]Money
	for _, e := range expenses {
		if e.Date.Year() == now.Year() {
			perMonth[int(e.Date.Month())-1].Cents += e.Amount.Cents
		}
	}

	rows := make([]MonthRow, 12)
	for i := range rows {
		remaining := salary.Cents - perMonth[i].Cents
		if remaining < 0 {
			remaining = 0
		}
		rows[i] = MonthRow{
			Month:     time.Month(i + 1).String()[:3],
			Expenses:  perMonth[i],
			Salary:    salary,
			Remaining: Money{Cents: remaining},
		}
	}
	return rows
}

// PieSlice is the derived geometry for one category arc. Angles are in
// radians with zero at twelve o'clock (offset by -pi/2) increasing
// clockwise, matching SVG arc sweep.
type PieSlice struct {
	Category   string  `json:"category"`
	Amount     Money   `json:"amount"`
	Percentage float64 `json:"percentage"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	LargeArc   bool    `json:"largeArc"`
	Color      string  `json:"color"`
	Path       string  `json:"path"`
}

// pieColors is indexed by the entry's position in the breakdown, before the
// descending sort, so each category keeps its color when amounts shift.
var pieColors = []string{
	"#ef4444", "#3b82f6", "#8b5cf6", "#06b6d4",
	"#f59e0b", "#10b981", "#6366f1", "#6b7280",
}

const (
	pieRadius  = 80.0
	pieCenterX = 120.0
	pieCenterY = 120.0
)

// PieSlices converts a category breakdown into pie geometry: amounts are
// normalized by the grand total, sorted descending, and laid out as
// cumulative arcs. Returns nil when the total is zero.
func PieSlices(breakdown *Breakdown) []PieSlice {
	total := breakdown.Total()
	if total.Cents <= 0 {
		return nil
	}

	type placedEntry struct {
		BreakdownEntry
		pos int
	}
	entries := breakdown.Entries()
	placed := make([]placedEntry, len(entries))
	for i, e := range entries {
		placed[i] = placedEntry{BreakdownEntry: e, pos: i}
	}
	sort.SliceStable(placed, func(i, j int) bool {
		return placed[i].Amount.Cents > placed[j].Amount.Cents
	})

	slices := make([]PieSlice, 0, len(placed))
	cumulative := 0.0
	for _, e := range placed {
		pct := float64(e.Amount.Cents) / float64(total.Cents) * 100
		start := cumulative/100*2*math.Pi - math.Pi/2
		end := (cumulative+pct)/100*2*math.Pi - math.Pi/2

		x1 := pieCenterX + pieRadius*math.Cos(start)
		y1 := pieCenterY + pieRadius*math.Sin(start)
		x2 := pieCenterX + pieRadius*math.Cos(end)
		y2 := pieCenterY + pieRadius*math.Sin(end)
		largeArc := pct > 50
		arcFlag := 0
		if largeArc {
			arcFlag = 1
		}
		path := fmt.Sprintf("M %g %g L %g %g A %g %g 0 %d 1 %g %g Z",
			pieCenterX, pieCenterY, x1, y1, pieRadius, pieRadius, arcFlag, x2, y2)

		slices = append(slices, PieSlice{
			Category:   e.Label,
			Amount:     e.Amount,
			Percentage: pct,
			StartAngle: start,
			EndAngle:   end,
			LargeArc:   largeArc,
			Color:      pieColors[e.pos%len(pieColors)],
			Path:       path,
		})
		cumulative += pct
	}
	return slices
}
