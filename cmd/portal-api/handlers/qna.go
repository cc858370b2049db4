package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
	"github.com/yhseo-kgs/chatbot-proxy/internal/qna"
)

const maxSearchLimit = 50

// QnAHandler exposes read-only access to the QnA store.
type QnAHandler struct {
	logger *observability.Logger
	store  *qna.Store
}

// NewQnAHandler creates a new QnA handler.
func NewQnAHandler(logger *observability.Logger, store *qna.Store) *QnAHandler {
	return &QnAHandler{
		logger: logger,
		store:  store,
	}
}

// SearchResponseDTO is the body of GET /api/qna/search.
type SearchResponseDTO struct {
	Query   string       `json:"query"`
	Results []qna.Record `json:"results"`
}

// Search handles GET /api/qna/search?q=&limit=.
func (h *QnAHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit", "")
			return
		}
		if n > maxSearchLimit {
			n = maxSearchLimit
		}
		limit = n
	}

	results, err := h.store.Search(q, limit)
	if err != nil {
		writeError(w, statusFor(err), "qna data unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, SearchResponseDTO{Query: q, Results: results})
}

// Get handles GET /api/qna/{id}.
func (h *QnAHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id", err.Error())
		return
	}

	rec, ok, err := h.store.FindByID(id)
	if err != nil {
		writeError(w, statusFor(err), "qna data unavailable", "")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "qna not found", "")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ByCategory handles GET /api/qna/categories/{category}.
func (h *QnAHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.GetByCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, statusFor(err), "qna data unavailable", "")
		return
	}
	if records == nil {
		records = []qna.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Categories handles GET /api/qna/categories.
func (h *QnAHandler) Categories(w http.ResponseWriter, r *http.Request) {
	idx, err := h.store.Index()
	if err != nil {
		writeError(w, statusFor(err), "qna data unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, idx.Map())
}

// Stats handles GET /api/qna/stats.
func (h *QnAHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Stats()
	if err != nil {
		writeError(w, statusFor(err), "qna data unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, st)
}
