package http

import (
	"net/http"

	"financas/internal/core"
)

type transactionRequest struct {
	Title       string `json:"title"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Note        string `json:"note"`
	ExtraMonths int    `json:"extra_months"`
}

type transactionJSON struct {
	ID           int64  `json:"id"`
	RecurrenceID *int64 `json:"recurrence_id,omitempty"`
	Title        string `json:"title"`
	Kind         string `json:"kind"`
	Category     string `json:"category"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	Note         string `json:"note,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:           t.ID,
		RecurrenceID: t.RecurrenceID,
		Title:        t.Title,
		Kind:         string(t.Kind),
		Category:     string(t.Category),
		Amount:       core.AmountString(t.Amount),
		Date:         t.Date.Format(dateLayout),
		Status:       string(t.Status),
		Note:         t.Note,
	}
}

func (req transactionRequest) toDomain(ownerID int64) (core.Transaction, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, core.ErrZeroDate
	}
	status := core.Status(req.Status)
	if req.Status == "" {
		status = core.StatusPending
	}
	return core.Transaction{
		OwnerID:  ownerID,
		Title:    req.Title,
		Kind:     core.Kind(req.Kind),
		Category: core.Category(req.Category),
		Amount:   amount,
		Date:     date,
		Status:   status,
		Note:     req.Note,
	}, nil
}

type createTransactionResponse struct {
	Transaction transactionJSON   `json:"transaction"`
	Repeats     []transactionJSON `json:"repeats,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := req.toDomain(ownerFromContext(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	repeats, err := s.ledger.Create(r.Context(), &tx, req.ExtraMonths)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := createTransactionResponse{Transaction: toTransactionJSON(tx)}
	for _, rep := range repeats {
		resp.Repeats = append(resp.Repeats, toTransactionJSON(rep))
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.ledger.Get(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := ownerFromContext(r.Context())

	// The row must exist and belong to the caller before any rewrite.
	existing, err := s.ledger.Get(r.Context(), ownerID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	tx, err := req.toDomain(ownerID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tx.ID = id
	tx.RecurrenceID = existing.RecurrenceID

	if err := s.ledger.Update(r.Context(), &tx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ledger.Delete(r.Context(), ownerFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
