package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tracker/internal/core"
	applog "tracker/internal/log"
)

// SheetsAppender mirrors created expenses into a Google Sheet, one row per
// expense. Append-only; updates and deletes are not propagated.
type SheetsAppender struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsAppender builds the sheets client from service account
// credentials, inline JSON taking precedence over a file path.
func NewSheetsAppender(ctx context.Context, spreadsheetID, sheetName, credentialsFile, credentialsJSON string) (*SheetsAppender, error) {
	if spreadsheetID == "" || sheetName == "" {
		return nil, errors.New("spreadsheet ID and sheet name are required")
	}

	var opts []option.ClientOption
	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	default:
		return nil, errors.New("missing service account credentials")
	}
	opts = append(opts, option.WithScopes(gsheet.SpreadsheetsScope))

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsAppender{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Append writes one expense row: date, title, category, amount, description
// and namespace.
func (a *SheetsAppender) Append(ctx context.Context, userID string, e core.Expense) error {
	vr := &gsheet.ValueRange{Values: [][]any{{
		e.Date.String(),
		e.Title,
		e.Category,
		e.Amount.Float(),
		e.Description,
		userID,
	}}}

	rng := fmt.Sprintf("%s!A:F", a.sheetName)
	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", a.sheetName, err)
	}

	slog.InfoContext(ctx, "Expense mirrored to sheet",
		applog.FieldUserID, userID,
		applog.FieldExpenseID, e.ID,
		"sheet", a.sheetName)
	return nil
}
