package http

import (
	"net/http"

	"financas/internal/core"
)

type goalRequest struct {
	Title        string `json:"title"`
	TargetAmount string `json:"target_amount"`
	SavedAmount  string `json:"saved_amount"`
	Deadline     string `json:"deadline,omitempty"`
}

type goalJSON struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	TargetAmount string `json:"target_amount"`
	SavedAmount  string `json:"saved_amount"`
	Deadline     string `json:"deadline,omitempty"`
	Progress     string `json:"progress"`
}

func toGoalJSON(g core.Goal) goalJSON {
	out := goalJSON{
		ID:           g.ID,
		Title:        g.Title,
		TargetAmount: core.AmountString(g.TargetAmount),
		SavedAmount:  core.AmountString(g.SavedAmount),
		Progress:     g.Progress().String(),
	}
	if g.Deadline != nil {
		out.Deadline = g.Deadline.Format(dateLayout)
	}
	return out
}

func (req goalRequest) toDomain(ownerID int64) (core.Goal, error) {
	target, err := core.ParseAmount(req.TargetAmount)
	if err != nil {
		return core.Goal{}, err
	}
	goal := core.Goal{
		OwnerID:      ownerID,
		Title:        req.Title,
		TargetAmount: target,
	}
	if req.SavedAmount != "" {
		saved, err := core.ParseAmount(req.SavedAmount)
		if err != nil {
			return core.Goal{}, err
		}
		goal.SavedAmount = saved
	}
	if req.Deadline != "" {
		deadline, err := parseDate(req.Deadline)
		if err != nil {
			return core.Goal{}, core.ErrZeroDate
		}
		goal.Deadline = &deadline
	}
	return goal, nil
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]goalJSON, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalJSON(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := req.toDomain(ownerFromContext(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.goals.Create(r.Context(), &goal); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalJSON(goal))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := req.toDomain(ownerFromContext(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	goal.ID = id

	if err := s.goals.Update(r.Context(), &goal); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalJSON(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.goals.Delete(r.Context(), ownerFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
