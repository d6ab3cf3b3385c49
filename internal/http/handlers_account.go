package http

import (
	"errors"
	"net/http"

	"financas/internal/core"
	"financas/internal/services"
)

type accountJSON struct {
	Balance   string `json:"balance"`
	UpdatedAt string `json:"updated_at"`
}

func toAccountJSON(a core.Account) accountJSON {
	return accountJSON{
		Balance:   core.AmountString(a.Balance),
		UpdatedAt: a.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.account.Get(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountJSON(account))
}

func (s *Server) handleSetAccountBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Balance string `json:"balance"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The account balance may go negative, so this skips the positive-only
	// amount rule and parses the decimal directly.
	balance, err := services.ParseBalance(req.Balance)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid balance")
		return
	}

	account, err := s.account.SetBalance(r.Context(), ownerFromContext(r.Context()), balance)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusUnprocessableEntity, "invalid balance")
			return
		}
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountJSON(account))
}
