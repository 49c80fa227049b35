// Package service implements the application operations on top of the
// key-value store: expense CRUD, profile and category management, and the
// minimal account system.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"tracker/internal/core"
	"tracker/internal/events"
	applog "tracker/internal/log"
	"tracker/internal/storage"
)

// EventPublisher receives a notification after every successful expense
// write. A nil publisher disables notifications.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, userID, expenseID, action string) error
}

// ExpenseService owns the per-namespace expense collections.
type ExpenseService struct {
	store     storage.Store
	publisher EventPublisher
	now       func() time.Time
}

func NewExpenseService(store storage.Store, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher, now: time.Now}
}

// List returns all expenses in the namespace, newest date first.
func (s *ExpenseService) List(ctx context.Context, userID string) []core.Expense {
	expenses := s.load(ctx, userID)
	sortExpenses(expenses)
	return expenses
}

// Get returns the expense with the given id.
func (s *ExpenseService) Get(ctx context.Context, userID, id string) (core.Expense, error) {
	for _, e := range s.load(ctx, userID) {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

// Create validates and stores a new expense, assigning id and timestamps.
func (s *ExpenseService) Create(ctx context.Context, userID string, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	now := s.now().UTC()
	e.ID = NewID()
	e.CreatedAt = now
	e.UpdatedAt = now

	expenses := s.load(ctx, userID)
	expenses = append([]core.Expense{e}, expenses...)
	if err := s.save(ctx, userID, expenses); err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense created",
		applog.FieldUserID, userID,
		applog.FieldExpenseID, e.ID,
		applog.FieldCategory, e.Category,
		applog.FieldAmountCents, e.Amount.Cents)

	s.publish(ctx, userID, e.ID, events.ActionCreated)
	return e, nil
}

// ExpensePatch carries the fields of a partial update. Nil fields keep
// their stored values.
type ExpensePatch struct {
	Title       *string
	Amount      *core.Money
	Category    *string
	Date        *core.Date
	Description *string
}

// Update applies a patch to an existing expense.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, patch ExpensePatch) (core.Expense, error) {
	expenses := s.load(ctx, userID)
	for i, e := range expenses {
		if e.ID != id {
			continue
		}
		if patch.Title != nil {
			e.Title = *patch.Title
		}
		if patch.Amount != nil {
			e.Amount = *patch.Amount
		}
		if patch.Category != nil {
			e.Category = *patch.Category
		}
		if patch.Date != nil {
			e.Date = *patch.Date
		}
		if patch.Description != nil {
			e.Description = *patch.Description
		}
		if err := e.Validate(); err != nil {
			return core.Expense{}, err
		}
		e.UpdatedAt = s.now().UTC()
		expenses[i] = e
		if err := s.save(ctx, userID, expenses); err != nil {
			return core.Expense{}, err
		}

		slog.InfoContext(ctx, "Expense updated", applog.FieldUserID, userID, applog.FieldExpenseID, id)
		s.publish(ctx, userID, id, events.ActionUpdated)
		return e, nil
	}
	return core.Expense{}, core.ErrNotFound
}

// Delete removes the expense with the given id. Returns core.ErrNotFound
// when no such expense exists.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	expenses := s.load(ctx, userID)
	for i, e := range expenses {
		if e.ID != id {
			continue
		}
		expenses = append(expenses[:i], expenses[i+1:]...)
		if err := s.save(ctx, userID, expenses); err != nil {
			return err
		}

		slog.InfoContext(ctx, "Expense deleted", applog.FieldUserID, userID, applog.FieldExpenseID, id)
		s.publish(ctx, userID, id, events.ActionDeleted)
		return nil
	}
	return core.ErrNotFound
}

// Stats derives aggregate figures from the live collection.
func (s *ExpenseService) Stats(ctx context.Context, userID string) core.ExpenseStats {
	return core.ComputeStats(s.load(ctx, userID), s.now())
}

func (s *ExpenseService) load(ctx context.Context, userID string) []core.Expense {
	return storage.Load(ctx, s.store, storage.Key(userID, storage.KindExpenses), []core.Expense{})
}

func (s *ExpenseService) save(ctx context.Context, userID string, expenses []core.Expense) error {
	if err := storage.Save(ctx, s.store, storage.Key(userID, storage.KindExpenses), expenses); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, userID, expenseID, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, userID, expenseID, action); err != nil {
		// The write already succeeded; a lost notification is not fatal.
		slog.ErrorContext(ctx, "Failed to publish expense event",
			applog.FieldUserID, userID,
			applog.FieldExpenseID, expenseID,
			applog.FieldAction, action,
			applog.FieldError, err)
	}
}

// sortExpenses orders newest date first; ties broken by creation time so
// interleaved same-day entries keep a stable order.
func sortExpenses(expenses []core.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		a, b := expenses[i], expenses[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
