// Package relay exposes the chat-completion proxy: it validates a
// {message} body, signs and forwards it to CLOVA Studio and passes the
// vendor reply back. It holds no per-request state.
package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yhseo-kgs/chatbot-proxy/internal/clova"
	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
)

// Error bodies returned to callers.
const (
	msgMethodNotAllowed = "Method not allowed"
	msgConfigError      = "Server configuration error"
	msgInvalidMessage   = "Message is required and must be a non-empty string"
	msgUpstreamFailed   = "CLOVA API request failed"
	msgInternalError    = "Internal server error"
	msgConnectFailed    = "Failed to connect to CLOVA Studio API"
	maxBodyBytes        = 64 << 10
)

// Vendor is the part of the CLOVA client the handler needs.
type Vendor interface {
	Configured() bool
	Send(ctx context.Context, message string) (*clova.RawResponse, error)
}

// Handler serves the chat relay endpoint.
type Handler struct {
	vendor Vendor
	logger *observability.Logger
}

// NewHandler creates a relay handler.
func NewHandler(vendor Vendor, logger *observability.Logger) *Handler {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Handler{vendor: vendor, logger: logger.WithComponent("relay")}
}

// Request is the accepted body. Message is raw so non-string values can be rejected.
type Request struct {
	Message json.RawMessage `json:"message"`
}

// ErrorResponse is the error body shape.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Message string          `json:"message,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// SetCORSHeaders writes the open CORS policy used by the relay.
func SetCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	h.Set("Access-Control-Max-Age", "86400")
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	SetCORSHeaders(w.Header())
	logger := h.logger.WithContext(r.Context())

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Error: msgMethodNotAllowed})
		return
	}

	if h.vendor == nil || !h.vendor.Configured() {
		logger.Error().Msg("Missing required clova credentials")
		h.writeError(w, http.StatusInternalServerError, ErrorResponse{Error: msgConfigError})
		return
	}

	message, ok := decodeMessage(w, r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidMessage})
		return
	}

	raw, err := h.vendor.Send(r.Context(), message)
	if err != nil {
		logger.Error().Err(err).Msg("Chat relay failed")
		h.writeError(w, http.StatusInternalServerError, ErrorResponse{
			Error:   msgInternalError,
			Message: msgConnectFailed,
		})
		return
	}

	if !raw.OK() {
		details := upstreamDetails(raw.Body)
		evt := logger.Warn().Int("status", raw.StatusCode)
		if details != nil {
			evt = evt.RawJSON("details", details)
		}
		evt.Msg("CLOVA API error")
		h.writeError(w, raw.StatusCode, ErrorResponse{Error: msgUpstreamFailed, Details: details})
		return
	}

	logger.Debug().Int("message_length", len([]rune(message))).Msg("Chat relayed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw.Body)
}

// decodeMessage returns the trimmed-non-empty message string, or false when
// the body is not JSON or message is missing, blank or not a string.
func decodeMessage(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return "", false
	}
	if len(req.Message) == 0 {
		return "", false
	}
	var message string
	if err := json.Unmarshal(req.Message, &message); err != nil {
		return "", false
	}
	if strings.TrimSpace(message) == "" {
		return "", false
	}
	return message, true
}

// upstreamDetails passes a JSON vendor body through and quotes anything else.
func upstreamDetails(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return body
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}

func (h *Handler) writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write error response")
	}
}

var _ Vendor = (*clova.Client)(nil)
