package http

import (
	"net/http"

	"tracker/internal/core"
	"tracker/internal/service"
)

type expenseRequest struct {
	Title       *string     `json:"title"`
	Amount      *core.Money `json:"amount"`
	Category    *string     `json:"category"`
	Date        *core.Date  `json:"date"`
	Description *string     `json:"description"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID := namespaceFrom(r)
	expenses := s.services.Expenses.List(r.Context(), userID)
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	userID := namespaceFrom(r)
	expense, err := s.services.Expenses.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense := core.Expense{}
	if req.Title != nil {
		expense.Title = sanitize(*req.Title)
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		expense.Category = sanitize(*req.Category)
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}
	if req.Description != nil {
		expense.Description = sanitize(*req.Description)
	}

	userID := namespaceFrom(r)
	created, err := s.services.Expenses.Create(r.Context(), userID, expense)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateStats(userID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := service.ExpensePatch{
		Amount: req.Amount,
		Date:   req.Date,
	}
	if req.Title != nil {
		title := sanitize(*req.Title)
		patch.Title = &title
	}
	if req.Category != nil {
		category := sanitize(*req.Category)
		patch.Category = &category
	}
	if req.Description != nil {
		description := sanitize(*req.Description)
		patch.Description = &description
	}

	userID := namespaceFrom(r)
	updated, err := s.services.Expenses.Update(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateStats(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID := namespaceFrom(r)
	if err := s.services.Expenses.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateStats(userID)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
