package http

import (
	"net/http"
	"strconv"
	"strings"

	"financas/internal/core"
)

type snapshotJSON struct {
	ID        int64  `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name,omitempty"`
	Price     string `json:"price"`
	Fiat      string `json:"fiat"`
	Change24h string `json:"change_24h"`
	FetchedAt string `json:"fetched_at"`
}

func toSnapshotJSON(s core.CryptoSnapshot) snapshotJSON {
	return snapshotJSON{
		ID:        s.ID,
		Symbol:    s.Symbol,
		Name:      s.Name,
		Price:     s.Price.String(),
		Fiat:      s.Fiat,
		Change24h: s.Change24h.String(),
		FetchedAt: s.FetchedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *Server) handleCryptoRefresh(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	if raw := strings.TrimSpace(r.URL.Query().Get("symbols")); raw != "" {
		symbols = strings.Split(raw, ",")
	}
	convert := strings.TrimSpace(r.URL.Query().Get("convert"))

	snaps, err := s.snapshots.Refresh(r.Context(), ownerFromContext(r.Context()), symbols, convert)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]snapshotJSON, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toSnapshotJSON(snap))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCryptoSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	snaps, err := s.snapshots.History(r.Context(), ownerFromContext(r.Context()), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]snapshotJSON, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toSnapshotJSON(snap))
	}
	writeJSON(w, http.StatusOK, out)
}
