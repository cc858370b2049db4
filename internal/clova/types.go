package clova

import (
	"encoding/json"
	"strings"
)

// StatusOK is the vendor status code for a successful completion.
const StatusOK = "20000"

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the chat-completions request body.
type ChatRequest struct {
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"topP"`
	MaxTokens        int       `json:"maxTokens"`
	TopK             int       `json:"topK"`
	RepeatPenalty    float64   `json:"repeatPenalty"`
	IncludeAIFilters bool      `json:"includeAiFilters"`
}

// Status is the vendor status envelope.
type Status struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result carries the generated message.
type Result struct {
	Message      Message `json:"message"`
	InputLength  int     `json:"inputLength,omitempty"`
	OutputLength int     `json:"outputLength,omitempty"`
	StopReason   string  `json:"stopReason,omitempty"`
}

// ChatResponse is the subset of the vendor response the orchestrator reads.
// Error is kept raw because its shape differs between API versions.
type ChatResponse struct {
	Status *Status         `json:"status,omitempty"`
	Result *Result         `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// Content returns the generated text, or "" when absent.
func (r *ChatResponse) Content() string {
	if r == nil || r.Result == nil {
		return ""
	}
	return r.Result.Message.Content
}

// HasError reports whether the payload carries a non-null error field.
func (r *ChatResponse) HasError() bool {
	if r == nil {
		return false
	}
	e := strings.TrimSpace(string(r.Error))
	return e != "" && e != "null" && e != "false" && e != `""`
}

// Accepted applies the permissive success rule: an explicit success status,
// or generated content without an error field.
func (r *ChatResponse) Accepted() bool {
	if r == nil {
		return false
	}
	if r.Status != nil && r.Status.Code == StatusOK {
		return true
	}
	return r.Content() != "" && !r.HasError()
}

// FailureReason extracts a diagnostic message from a rejected payload.
func (r *ChatResponse) FailureReason() string {
	if r != nil && r.Status != nil && r.Status.Message != "" {
		return r.Status.Message
	}
	if r != nil && r.HasError() {
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(r.Error, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
		var s string
		if err := json.Unmarshal(r.Error, &s); err == nil && s != "" {
			return s
		}
	}
	return "unexpected api response"
}
