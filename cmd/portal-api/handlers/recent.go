package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-api/middleware"
	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
	"github.com/yhseo-kgs/chatbot-proxy/internal/recent"
)

// RecentHandler manages a client's recent vessel searches.
type RecentHandler struct {
	logger *observability.Logger
	store  *recent.Store
}

// NewRecentHandler creates a new recent-searches handler.
func NewRecentHandler(logger *observability.Logger, store *recent.Store) *RecentHandler {
	return &RecentHandler{
		logger: logger,
		store:  store,
	}
}

// RecentRequestDTO is the body of POST /api/recent-searches.
type RecentRequestDTO struct {
	Query string `json:"query"`
}

// RecentResponseDTO lists searches, most recent first.
type RecentResponseDTO struct {
	Items []string `json:"items"`
}

func (h *RecentHandler) list(r *http.Request) *recent.List {
	return h.store.For(middleware.ClientFromContext(r.Context()))
}

// List handles GET /api/recent-searches.
func (h *RecentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.list(r).Items(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Msg("load recent searches")
		writeError(w, http.StatusInternalServerError, "recent searches unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, RecentResponseDTO{Items: items})
}

// Add handles POST /api/recent-searches.
func (h *RecentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req RecentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	items, err := h.list(r).Add(r.Context(), req.Query)
	if err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Msg("save recent search")
		writeError(w, http.StatusInternalServerError, "recent searches unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, RecentResponseDTO{Items: items})
}

// Remove handles DELETE /api/recent-searches/{index}.
func (h *RecentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index", err.Error())
		return
	}

	items, err := h.list(r).Remove(r.Context(), index)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			writeError(w, status, "invalid index", err.Error())
			return
		}
		h.logger.WithContext(r.Context()).Error().Err(err).Msg("remove recent search")
		writeError(w, status, "recent searches unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, RecentResponseDTO{Items: items})
}

// Clear handles DELETE /api/recent-searches.
func (h *RecentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.list(r).Clear(r.Context()); err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Msg("clear recent searches")
		writeError(w, http.StatusInternalServerError, "recent searches unavailable", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
