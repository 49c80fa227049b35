// Package worker consumes expense events and maintains per-user CSV export
// snapshots on disk, optionally mirroring new expenses to a Google Sheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tracker/internal/core"
	"tracker/internal/events"
	"tracker/internal/export"
	applog "tracker/internal/log"
	"tracker/internal/service"
)

type ReportWorker struct {
	expenses *service.ExpenseService
	outDir   string
	sheets   *SheetsAppender // nil disables the sheets mirror
}

func NewReportWorker(expenses *service.ExpenseService, outDir string, sheets *SheetsAppender) *ReportWorker {
	return &ReportWorker{
		expenses: expenses,
		outDir:   outDir,
		sheets:   sheets,
	}
}

// HandleEvent rebuilds the CSV snapshot for the event's namespace. Created
// expenses are also appended to the configured sheet.
func (w *ReportWorker) HandleEvent(ctx context.Context, event *events.ExpenseEvent) error {
	slog.InfoContext(ctx, "Processing expense event",
		applog.FieldUserID, event.UserID,
		applog.FieldExpenseID, event.ExpenseID,
		applog.FieldAction, event.Action)

	if err := w.rebuildSnapshot(ctx, event.UserID); err != nil {
		return fmt.Errorf("rebuild snapshot: %w", err)
	}

	if w.sheets != nil && event.Action == events.ActionCreated {
		expense, err := w.expenses.Get(ctx, event.UserID, event.ExpenseID)
		if errors.Is(err, core.ErrNotFound) {
			// Deleted again before we got here; the snapshot is already correct.
			slog.WarnContext(ctx, "Expense vanished before sheets mirror",
				applog.FieldUserID, event.UserID, applog.FieldExpenseID, event.ExpenseID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load expense for sheets mirror: %w", err)
		}
		if err := w.sheets.Append(ctx, event.UserID, expense); err != nil {
			return fmt.Errorf("append to sheets: %w", err)
		}
	}

	return nil
}

// rebuildSnapshot writes the namespace's full expense list as CSV, replacing
// the previous snapshot atomically.
func (w *ReportWorker) rebuildSnapshot(ctx context.Context, userID string) error {
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	expenses := w.expenses.List(ctx, userID)
	csv := export.CSV(expenses)

	path := w.SnapshotPath(userID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(csv), 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot rebuilt",
		applog.FieldUserID, userID,
		applog.FieldPath, path,
		"rows", len(expenses))
	return nil
}

// SnapshotPath returns the CSV path for a namespace. The legacy shared
// namespace maps to "shared".
func (w *ReportWorker) SnapshotPath(userID string) string {
	name := userID
	if name == "" {
		name = "shared"
	}
	return filepath.Join(w.outDir, "expenses_"+name+".csv")
}
