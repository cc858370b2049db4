package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/yhseo-kgs/chatbot-proxy/internal/clova"
	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
)

// AIClient asks the external model for an answer. Implementations must
// honor ctx cancellation; the orchestrator imposes its own deadline.
type AIClient interface {
	Ask(ctx context.Context, message string) (*clova.ChatResponse, error)
}

// RelayClient posts {message} to the chat relay endpoint.
type RelayClient struct {
	url    string
	client *http.Client
}

// NewRelayClient creates a RelayClient. A nil client uses http.DefaultClient;
// the deadline comes from the caller's context.
func NewRelayClient(url string, client *http.Client) *RelayClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &RelayClient{url: url, client: client}
}

type relayRequest struct {
	Message string `json:"message"`
}

// Ask implements AIClient.
func (c *RelayClient) Ask(ctx context.Context, message string) (*clova.ChatResponse, error) {
	body, err := json.Marshal(relayRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("marshal relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, domain.UpstreamError(resp.StatusCode, "chat relay returned non-success status", nil)
	}

	var out clova.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode relay response: %w", err)
	}
	return &out, nil
}

// DirectClient calls CLOVA Studio in-process, skipping the relay hop.
type DirectClient struct {
	client *clova.Client
}

// NewDirectClient wraps a configured clova client.
func NewDirectClient(client *clova.Client) *DirectClient {
	return &DirectClient{client: client}
}

// Ask implements AIClient.
func (c *DirectClient) Ask(ctx context.Context, message string) (*clova.ChatResponse, error) {
	return c.client.Complete(ctx, message)
}

var (
	_ AIClient = (*RelayClient)(nil)
	_ AIClient = (*DirectClient)(nil)
)
