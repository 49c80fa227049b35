package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(amountCents int64, category, date string) Expense {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Expense{
		ID:       "x",
		Title:    "t",
		Amount:   Money{Cents: amountCents},
		Category: category,
		Date:     d,
	}
}

func TestComputeStatsExample(t *testing.T) {
	// The reference example: two Food expenses across March and April.
	expenses := []Expense{
		expense(10000, "Food", "2024-03-01"),
		expense(5000, "Food", "2024-04-01"),
	}
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	stats := ComputeStats(expenses, now)

	assert.Equal(t, int64(15000), stats.TotalExpenses.Cents)
	assert.Equal(t, int64(10000), stats.MonthlyExpenses.Cents)
	assert.Equal(t, 1, stats.CategoryCount)
	assert.Equal(t, 2, stats.TransactionCount)

	food, ok := stats.CategoryBreakdown.Get("Food")
	require.True(t, ok)
	assert.Equal(t, int64(15000), food.Cents)

	mar, ok := stats.YearlyBreakdown.Get("Mar 2024")
	require.True(t, ok)
	assert.Equal(t, int64(10000), mar.Cents)
	apr, ok := stats.YearlyBreakdown.Get("Apr 2024")
	require.True(t, ok)
	assert.Equal(t, int64(5000), apr.Cents)
}

func TestComputeStatsInvariants(t *testing.T) {
	expenses := []Expense{
		expense(1250, "Food", "2025-01-03"),
		expense(999, "Transport", "2025-02-11"),
		expense(31500, "Rent", "2025-02-01"),
		expense(75, "Food", "2024-12-31"),
	}
	now := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)

	stats := ComputeStats(expenses, now)

	// sum(categoryBreakdown.values()) == totalExpenses
	assert.Equal(t, stats.TotalExpenses.Cents, stats.CategoryBreakdown.Total().Cents)
	// sum(yearlyBreakdown.values()) == totalExpenses as well
	assert.Equal(t, stats.TotalExpenses.Cents, stats.YearlyBreakdown.Total().Cents)
	// monthlyExpenses <= totalExpenses always
	assert.LessOrEqual(t, stats.MonthlyExpenses.Cents, stats.TotalExpenses.Cents)
	assert.Equal(t, 3, stats.CategoryCount)
	assert.Equal(t, 4, stats.TransactionCount)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, time.Now())
	assert.Zero(t, stats.TotalExpenses.Cents)
	assert.Zero(t, stats.MonthlyExpenses.Cents)
	assert.Zero(t, stats.CategoryCount)
	assert.Zero(t, stats.TransactionCount)
	assert.Equal(t, 0, stats.CategoryBreakdown.Len())
}

func TestBreakdownJSONPreservesOrder(t *testing.T) {
	b := NewBreakdown()
	b.Add("Zeta", Money{Cents: 100})
	b.Add("Alpha", Money{Cents: 250})
	b.Add("Zeta", Money{Cents: 50})

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":1.5,"Alpha":2.5}`, string(raw))
}

func TestMonthlySeries(t *testing.T) {
	expenses := []Expense{
		expense(50000, "Rent", "2025-01-05"),
		expense(250000, "Travel", "2025-06-20"), // exceeds salary
		expense(10000, "Food", "2024-06-20"),    // previous year, ignored
	}
	salary := Money{Cents: 200000}
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	rows := MonthlySeries(expenses, salary, now)
	require.Len(t, rows, 12)

	assert.Equal(t, "Jan", rows[0].Month)
	assert.Equal(t, "Dec", rows[11].Month)
	for _, row := range rows {
		assert.Equal(t, salary.Cents, row.Salary.Cents)
		assert.GreaterOrEqual(t, row.Remaining.Cents, int64(0))
	}

	assert.Equal(t, int64(50000), rows[0].Expenses.Cents)
	assert.Equal(t, int64(150000), rows[0].Remaining.Cents)
	// Remaining is clamped at zero when the month overshoots the salary.
	assert.Equal(t, int64(250000), rows[5].Expenses.Cents)
	assert.Equal(t, int64(0), rows[5].Remaining.Cents)
	// Untouched months carry the full salary.
	assert.Equal(t, int64(0), rows[2].Expenses.Cents)
	assert.Equal(t, salary.Cents, rows[2].Remaining.Cents)
}

func TestPieSlices(t *testing.T) {
	b := NewBreakdown()
	b.Add("Food", Money{Cents: 7500})
	b.Add("Transport", Money{Cents: 1500})
	b.Add("Other", Money{Cents: 1000})

	slices := PieSlices(b)
	require.Len(t, slices, 3)

	// Sorted descending by amount.
	assert.Equal(t, "Food", slices[0].Category)
	assert.Equal(t, "Transport", slices[1].Category)
	assert.Equal(t, "Other", slices[2].Category)

	// Percentages normalize to 100.
	sum := 0.0
	for _, s := range slices {
		sum += s.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-9)

	// Arcs are contiguous and cover the full circle.
	assert.InDelta(t, -math.Pi/2, slices[0].StartAngle, 1e-9)
	assert.InDelta(t, slices[0].EndAngle, slices[1].StartAngle, 1e-9)
	assert.InDelta(t, slices[1].EndAngle, slices[2].StartAngle, 1e-9)
	assert.InDelta(t, 3*math.Pi/2, slices[2].EndAngle, 1e-9)

	// Only the 75% slice needs the large-arc flag.
	assert.True(t, slices[0].LargeArc)
	assert.False(t, slices[1].LargeArc)
	assert.False(t, slices[2].LargeArc)

	assert.Contains(t, slices[0].Path, "A 80 80 0 1 1")
	assert.NotEmpty(t, slices[0].Color)
}

func TestPieSliceColorsFollowBreakdownOrder(t *testing.T) {
	b := NewBreakdown()
	b.Add("Transport", Money{Cents: 1000})
	b.Add("Food", Money{Cents: 9000})

	slices := PieSlices(b)
	require.Len(t, slices, 2)

	// Sorting by amount puts Food first, but it keeps the color of its
	// position in the breakdown.
	assert.Equal(t, "Food", slices[0].Category)
	assert.Equal(t, pieColors[1], slices[0].Color)
	assert.Equal(t, "Transport", slices[1].Category)
	assert.Equal(t, pieColors[0], slices[1].Color)
}

func TestPieSlicesEmptyTotal(t *testing.T) {
	assert.Nil(t, PieSlices(NewBreakdown()))
}
