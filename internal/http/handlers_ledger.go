package http

import (
	"net/http"
	"strings"

	"financas/internal/core"
)

type figuresJSON struct {
	PaidIncome        string `json:"paid_income"`
	PaidExpense       string `json:"paid_expense"`
	PendingTotal      string `json:"pending_total"`
	HistoricalBalance string `json:"historical_balance"`
	CommittedBalance  string `json:"committed_balance"`
}

type monthViewJSON struct {
	Year         int               `json:"year"`
	Month        int               `json:"month"`
	Materialized int               `json:"materialized"`
	Figures      figuresJSON       `json:"figures"`
	Items        []transactionJSON `json:"items"`
}

// handleLedgerMonth is the main screen: materialize the month, project its
// figures, and list its rows, optionally filtered by category.
func (s *Server) handleLedgerMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := core.Category(strings.TrimSpace(r.URL.Query().Get("category")))
	if category != "" && !category.Valid() {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	view, err := s.ledger.ViewMonth(r.Context(), ownerFromContext(r.Context()), year, month, category)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := monthViewJSON{
		Year:         view.Year,
		Month:        int(view.Month),
		Materialized: view.Materialized,
		Figures: figuresJSON{
			PaidIncome:        core.AmountString(view.Figures.PaidIncome),
			PaidExpense:       core.AmountString(view.Figures.PaidExpense),
			PendingTotal:      core.AmountString(view.Figures.PendingTotal),
			HistoricalBalance: core.AmountString(view.Figures.HistoricalBalance),
			CommittedBalance:  core.AmountString(view.Figures.CommittedBalance),
		},
		Items: make([]transactionJSON, 0, len(view.Items)),
	}
	for _, t := range view.Items {
		resp.Items = append(resp.Items, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, resp)
}
