package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"financas/internal/core"
	"financas/internal/services"
)

type chatMessageJSON struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func toChatMessageJSON(m core.ChatMessage) chatMessageJSON {
	return chatMessageJSON{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.chat.Ask(r.Context(), ownerFromContext(r.Context()), req.Prompt)
	if err != nil {
		if errors.Is(err, services.ErrEmptyPrompt) {
			writeError(w, http.StatusUnprocessableEntity, "prompt is empty")
			return
		}
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatMessageJSON(reply))
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	messages, err := s.chat.History(r.Context(), ownerFromContext(r.Context()), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]chatMessageJSON, 0, len(messages))
	for _, m := range messages {
		out = append(out, toChatMessageJSON(m))
	}
	writeJSON(w, http.StatusOK, out)
}
