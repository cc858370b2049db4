// Package clova talks to the NAVER CLOVA Studio chat-completions API,
// signing each request with the NCP API gateway scheme.
package clova

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://clovastudio.stream.ntruss.com"
	DefaultModel   = "HCX-003"
	DefaultTimeout = 30 * time.Second
)

// SystemPrompt is the persona sent ahead of every user message.
const SystemPrompt = "당신은 고압가스 특정설비 검사 및 안전관리에 대한 전문적인 정보를 제공하는 KGS AI 챗봇입니다. 정확하고 도움이 되는 정보를 제공해주세요."

// Header names used by the NCP API gateway.
const (
	HeaderTimestamp = "X-NCP-APIGW-TIMESTAMP"
	HeaderAccessKey = "X-NCP-IAM-ACCESS-KEY"
	HeaderSignature = "X-NCP-APIGW-SIGNATURE-V2"
)

// Credentials are the three secrets the gateway requires.
type Credentials struct {
	AccessKey string
	SecretKey string
	APIKey    string
}

// Complete reports whether every credential is present.
func (c Credentials) Complete() bool {
	return c.AccessKey != "" && c.SecretKey != "" && c.APIKey != ""
}

// String never prints secret material.
func (c Credentials) String() string {
	return fmt.Sprintf("clova.Credentials{complete:%t}", c.Complete())
}

// Config holds client settings.
type Config struct {
	Credentials Credentials
	BaseURL     string
	Model       string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client sends signed chat-completion requests.
type Client struct {
	creds   Credentials
	client  *http.Client
	baseURL string
	model   string
	now     func() time.Time
}

// NewClient creates a client, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		creds:   cfg.Credentials,
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		now:     time.Now,
	}
}

// Configured reports whether the client holds a complete credential set.
func (c *Client) Configured() bool {
	return c.creds.Complete()
}

// Path returns the request path that is both called and signed.
func (c *Client) Path() string {
	return "/v1/chat-completions/" + c.model
}

// NewChatRequest builds the request body for one user message.
func NewChatRequest(message string) ChatRequest {
	return ChatRequest{
		Messages: []Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: strings.TrimSpace(message)},
		},
		Temperature:      0.5,
		TopP:             0.8,
		MaxTokens:        256,
		TopK:             0,
		RepeatPenalty:    5.0,
		IncludeAIFilters: true,
	}
}

// RawResponse is the vendor's status code and body, untouched. The body is
// JSON whenever the status is 2xx.
type RawResponse struct {
	StatusCode int
	Body       json.RawMessage
}

// OK reports a 2xx vendor status.
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts message to the vendor and returns the raw reply. Transport
// failures and a 2xx reply with a non-JSON body are errors. A non-2xx
// status is not, whatever its body.
func (c *Client) Send(ctx context.Context, message string) (*RawResponse, error) {
	if !c.creds.Complete() {
		return nil, domain.ConfigError("clova credentials incomplete", nil)
	}

	body, err := json.Marshal(NewChatRequest(message))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	path := c.Path()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	ts := Timestamp(c.now())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.creds.APIKey)
	req.Header.Set(HeaderTimestamp, ts)
	req.Header.Set(HeaderAccessKey, c.creds.AccessKey)
	req.Header.Set(HeaderSignature, Sign(http.MethodPost, path, ts, c.creds.AccessKey, c.creds.SecretKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	raw := &RawResponse{StatusCode: resp.StatusCode, Body: respBody}
	if raw.OK() && !json.Valid(respBody) {
		return nil, fmt.Errorf("decode response: invalid json (status %d)", resp.StatusCode)
	}
	return raw, nil
}

// Complete sends message and decodes the reply. Non-2xx replies become
// upstream errors carrying the vendor status.
func (c *Client) Complete(ctx context.Context, message string) (*ChatResponse, error) {
	raw, err := c.Send(ctx, message)
	if err != nil {
		return nil, err
	}
	if !raw.OK() {
		return nil, domain.UpstreamError(raw.StatusCode, "clova api request failed", nil)
	}

	var out ChatResponse
	if err := json.Unmarshal(raw.Body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
