package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
)

func TestRelayClient_Ask(t *testing.T) {
	var got relayRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":{"code":"20000","message":"OK"},"result":{"message":{"role":"assistant","content":"안내드립니다."}}}`))
	}))
	defer server.Close()

	client := NewRelayClient(server.URL, server.Client())
	resp, err := client.Ask(context.Background(), "검사 수수료")
	require.NoError(t, err)

	assert.Equal(t, "검사 수수료", got.Message)
	assert.True(t, resp.Accepted())
	assert.Equal(t, "안내드립니다.", resp.Content())
}

func TestRelayClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"CLOVA API request failed"}`))
	}))
	defer server.Close()

	_, err := NewRelayClient(server.URL, nil).Ask(context.Background(), "q")
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrorTypeUpstream, de.Type)
	assert.Equal(t, http.StatusTooManyRequests, de.Status)
}

func TestRelayClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer server.Close()

	_, err := NewRelayClient(server.URL, nil).Ask(context.Background(), "q")
	assert.Error(t, err)
}
