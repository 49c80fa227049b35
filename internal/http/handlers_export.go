package http

import (
	"log/slog"
	"net/http"
	"time"

	"tracker/internal/core"
	"tracker/internal/export"
	applog "tracker/internal/log"
)

// filterFromQuery builds an expense filter from the export query string:
// q, category, from, to, min, max. Unparseable bounds are reported as 400.
func filterFromQuery(r *http.Request) (export.Filter, bool) {
	q := r.URL.Query()
	f := export.Filter{
		Search:   q.Get("q"),
		Category: q.Get("category"),
	}
	if v := q.Get("from"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, false
		}
		f.From = &d
	}
	if v := q.Get("to"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, false
		}
		f.To = &d
	}
	if v := q.Get("min"); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			return f, false
		}
		f.MinAmount = &core.Money{Cents: cents}
	}
	if v := q.Get("max"); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			return f, false
		}
		f.MaxAmount = &core.Money{Cents: cents}
	}
	return f, true
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid filter parameter")
		return
	}

	userID := namespaceFrom(r)
	expenses := filter.Apply(s.services.Expenses.List(r.Context(), userID))

	filename := "expenses_" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := w.Write([]byte(export.CSV(expenses))); err != nil {
		slog.ErrorContext(r.Context(), "CSV export write failed", applog.FieldError, err)
	}

	slog.InfoContext(r.Context(), "CSV export served",
		applog.FieldUserID, userID,
		"rows", len(expenses))
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid filter parameter")
		return
	}

	userID := namespaceFrom(r)
	expenses := filter.Apply(s.services.Expenses.List(r.Context(), userID))

	html, err := export.Report(expenses, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Report rendering failed", applog.FieldError, err, applog.FieldUserID, userID)
		writeError(w, http.StatusInternalServerError, "report rendering failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		slog.ErrorContext(r.Context(), "Report write failed", applog.FieldError, err)
	}
}
