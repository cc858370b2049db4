// Package handlers provides HTTP handlers for the portal API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	writeJSON(w, status, resp)
}

// statusFor maps a domain error to the HTTP status reported to callers.
func statusFor(err error) int {
	switch domain.TypeOf(err) {
	case domain.ErrorTypeNotReady, domain.ErrorTypeLoad:
		return http.StatusServiceUnavailable
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeBusy:
		return http.StatusTooManyRequests
	case domain.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case domain.ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
