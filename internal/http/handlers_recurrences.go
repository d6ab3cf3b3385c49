package http

import (
	"net/http"

	"financas/internal/core"
)

type recurrenceRequest struct {
	Title          string `json:"title"`
	Kind           string `json:"kind"`
	Category       string `json:"category"`
	Amount         string `json:"amount"`
	DueDay         int    `json:"due_day"`
	Start          string `json:"start"`
	DurationMonths int    `json:"duration_months"`
	Active         *bool  `json:"active,omitempty"`
}

type recurrenceJSON struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Kind           string `json:"kind"`
	Category       string `json:"category"`
	Amount         string `json:"amount"`
	DueDay         int    `json:"due_day"`
	Start          string `json:"start"`
	DurationMonths int    `json:"duration_months"`
	Active         bool   `json:"active"`
}

func toRecurrenceJSON(d core.RecurrenceDefinition) recurrenceJSON {
	return recurrenceJSON{
		ID:             d.ID,
		Title:          d.Title,
		Kind:           string(d.Kind),
		Category:       string(d.Category),
		Amount:         core.AmountString(d.Amount),
		DueDay:         d.DueDay,
		Start:          d.Start.Format(dateLayout),
		DurationMonths: d.DurationMonths,
		Active:         d.Active,
	}
}

func (req recurrenceRequest) toDomain(ownerID int64) (core.RecurrenceDefinition, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.RecurrenceDefinition{}, err
	}
	start, err := parseDate(req.Start)
	if err != nil {
		return core.RecurrenceDefinition{}, core.ErrZeroStart
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return core.RecurrenceDefinition{
		OwnerID:        ownerID,
		Title:          req.Title,
		Kind:           core.Kind(req.Kind),
		Category:       core.Category(req.Category),
		Amount:         amount,
		DueDay:         req.DueDay,
		Start:          start,
		DurationMonths: req.DurationMonths,
		Active:         active,
	}, nil
}

func (s *Server) handleListRecurrences(w http.ResponseWriter, r *http.Request) {
	defs, err := s.recurrences.List(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]recurrenceJSON, 0, len(defs))
	for _, d := range defs {
		out = append(out, toRecurrenceJSON(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRecurrence(w http.ResponseWriter, r *http.Request) {
	var req recurrenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	def, err := req.toDomain(ownerFromContext(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.recurrences.Create(r.Context(), &def); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurrenceJSON(def))
}

func (s *Server) handleUpdateRecurrence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req recurrenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	def, err := req.toDomain(ownerFromContext(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	def.ID = id

	if err := s.recurrences.Update(r.Context(), &def); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurrenceJSON(def))
}

func (s *Server) handleToggleRecurrence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	active, err := s.recurrences.Toggle(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": active})
}

func (s *Server) handleDeleteRecurrence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.recurrences.Delete(r.Context(), ownerFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
