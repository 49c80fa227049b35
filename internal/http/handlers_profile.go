package http

import (
	"net/http"

	"tracker/internal/core"
	"tracker/internal/service"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile := s.services.Profile.Get(r.Context(), namespaceFrom(r))
	writeJSON(w, http.StatusOK, profile)
}

// handleUpdateProfile accepts a partial {salary, currency} document; absent
// fields keep their stored values.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Salary   *core.Money `json:"salary"`
		Currency *string     `json:"currency"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Salary == nil && req.Currency == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	userID := namespaceFrom(r)
	profile, err := s.services.Profile.Update(r.Context(), userID, service.ProfilePatch{
		Salary:   req.Salary,
		Currency: req.Currency,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if req.Salary != nil {
		s.invalidateStats(userID)
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSetSalary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Salary *core.Money `json:"salary"`
	}
	if err := decodeBody(r, &req); err != nil || req.Salary == nil {
		writeError(w, http.StatusBadRequest, "salary must be a non-negative number")
		return
	}

	userID := namespaceFrom(r)
	profile, err := s.services.Profile.SetSalary(r.Context(), userID, *req.Salary)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateStats(userID)
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency string `json:"currency"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := s.services.Profile.SetCurrency(r.Context(), namespaceFrom(r), req.Currency)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories := s.services.Categories.List(r.Context(), namespaceFrom(r))
	writeJSON(w, http.StatusOK, categories)
}
