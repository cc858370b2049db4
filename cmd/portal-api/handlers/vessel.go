package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
	"github.com/yhseo-kgs/chatbot-proxy/internal/vessel"
)

// VesselHandler serves QR code lookups.
type VesselHandler struct {
	logger   *observability.Logger
	registry *vessel.Registry
	now      func() time.Time
}

// NewVesselHandler creates a new vessel handler.
func NewVesselHandler(logger *observability.Logger, registry *vessel.Registry) *VesselHandler {
	return &VesselHandler{
		logger:   logger,
		registry: registry,
		now:      time.Now,
	}
}

// Get handles GET /api/vessels/{code}.
func (h *VesselHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if vessel.NormalizeCode(code) == "" {
		writeError(w, http.StatusBadRequest, "code is required", "")
		return
	}

	v, ok := h.registry.Lookup(vessel.CanonicalQuery(code))
	if !ok {
		writeError(w, http.StatusNotFound, vessel.NotFoundMessage, "")
		return
	}
	writeJSON(w, http.StatusOK, vessel.NewProfile(v, h.now()))
}
