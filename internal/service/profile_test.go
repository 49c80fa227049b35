package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/core"
	"tracker/internal/storage"
)

func TestProfileDefault(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(storage.NewMemoryStore())

	p := svc.Get(ctx, "u1")
	assert.Equal(t, "default", p.ID)
	assert.Zero(t, p.Salary.Cents)
	assert.Equal(t, "USD", p.Currency)
}

func TestProfileSetSalary(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(storage.NewMemoryStore())

	p, err := svc.SetSalary(ctx, "u1", core.Money{Cents: 500000})
	require.NoError(t, err)
	assert.Equal(t, int64(500000), p.Salary.Cents)
	assert.False(t, p.UpdatedAt.IsZero())

	// Zero salary is allowed; negative is not.
	_, err = svc.SetSalary(ctx, "u1", core.Money{})
	require.NoError(t, err)
	_, err = svc.SetSalary(ctx, "u1", core.Money{Cents: -1})
	assert.ErrorIs(t, err, core.ErrInvalidSalary)

	// Other namespaces keep the default.
	assert.Zero(t, svc.Get(ctx, "u2").Salary.Cents)
}

func TestProfilePatchUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(storage.NewMemoryStore())

	salary := core.Money{Cents: 100000}
	currency := "EUR"
	p, err := svc.Update(ctx, "u1", ProfilePatch{Salary: &salary, Currency: &currency})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), p.Salary.Cents)
	assert.Equal(t, "EUR", p.Currency)

	// Nil fields keep the stored values.
	currency = "GBP"
	p, err = svc.Update(ctx, "u1", ProfilePatch{Currency: &currency})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), p.Salary.Cents)
	assert.Equal(t, "GBP", p.Currency)
}

func TestProfileSetCurrency(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(storage.NewMemoryStore())

	p, err := svc.SetCurrency(ctx, "u1", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR", p.Currency)

	_, err = svc.SetCurrency(ctx, "u1", "XXX")
	assert.ErrorIs(t, err, core.ErrInvalidCurrency)
	assert.Equal(t, "EUR", svc.Get(ctx, "u1").Currency)
}

func TestCategoriesDefaultSet(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(storage.NewMemoryStore())

	categories := svc.List(ctx, "u1")
	require.Len(t, categories, 8)
	assert.Equal(t, "Food & Dining", categories[0].Name)
	assert.Equal(t, "#ef4444", categories[0].Color)
	assert.Equal(t, "Other", categories[7].Name)
}
