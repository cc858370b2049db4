package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-api/middleware"
	"github.com/yhseo-kgs/chatbot-proxy/internal/chatbot"
	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
)

// ChatHandler serves the chatbot conversation endpoints.
type ChatHandler struct {
	logger   *observability.Logger
	sessions *chatbot.Sessions
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *observability.Logger, sessions *chatbot.Sessions) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// AskRequestDTO is the body of POST /api/ask.
type AskRequestDTO struct {
	Query string `json:"query"`
}

// WelcomeResponseDTO is the body of GET /api/chatbot/welcome.
type WelcomeResponseDTO struct {
	chatbot.Welcome
	MoreChips []string `json:"moreChips"`
	Loading   string   `json:"loading"`
}

// Ask handles POST /api/ask.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required", "")
		return
	}

	orch := h.sessions.Get(middleware.ClientFromContext(r.Context()))
	resp := orch.Process(r.Context(), req.Query)

	status := http.StatusOK
	switch {
	case domain.IsType(resp.Err, domain.ErrorTypeBusy):
		status = http.StatusTooManyRequests
	case resp.Type == chatbot.TypeError && resp.Err != nil:
		h.logger.WithContext(r.Context()).Warn().Err(resp.Err).Msg("question failed")
	}
	writeJSON(w, status, resp)
}

// Related handles GET /api/chatbot/related/{id}.
func (h *ChatHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id", err.Error())
		return
	}

	orch := h.sessions.Get(middleware.ClientFromContext(r.Context()))
	resp, err := orch.Related(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), "related question unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Welcome handles GET /api/chatbot/welcome.
func (h *ChatHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	orch := h.sessions.Get(middleware.ClientFromContext(r.Context()))
	more, err := orch.Suggestions(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Msg("welcome unavailable")
		writeError(w, statusFor(err), chatbot.InitErrorMessage, "")
		return
	}

	writeJSON(w, http.StatusOK, WelcomeResponseDTO{
		Welcome:   chatbot.NewWelcome(),
		MoreChips: more,
		Loading:   chatbot.LoadingMessage,
	})
}

// Status handles GET /api/chatbot/status.
func (h *ChatHandler) Status(w http.ResponseWriter, r *http.Request) {
	orch := h.sessions.Get(middleware.ClientFromContext(r.Context()))
	writeJSON(w, http.StatusOK, orch.Status())
}
