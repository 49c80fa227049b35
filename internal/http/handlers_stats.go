package http

import (
	"net/http"
	"time"

	"tracker/internal/core"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.cachedStats(r.Context(), namespaceFrom(r))
	writeJSON(w, http.StatusOK, stats)
}

// handleYearlyStats returns the salary-vs-expenses series for the current
// year, twelve rows January through December.
func (s *Server) handleYearlyStats(w http.ResponseWriter, r *http.Request) {
	userID := namespaceFrom(r)
	expenses := s.services.Expenses.List(r.Context(), userID)
	profile := s.services.Profile.Get(r.Context(), userID)
	rows := core.MonthlySeries(expenses, profile.Salary, time.Now())
	writeJSON(w, http.StatusOK, rows)
}

// handlePieStats returns pie chart geometry for the category breakdown.
// An empty collection yields an empty list, not an error.
func (s *Server) handlePieStats(w http.ResponseWriter, r *http.Request) {
	stats := s.cachedStats(r.Context(), namespaceFrom(r))
	slices := core.PieSlices(stats.CategoryBreakdown)
	if slices == nil {
		slices = []core.PieSlice{}
	}
	writeJSON(w, http.StatusOK, slices)
}
