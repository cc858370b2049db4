package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhseo-kgs/chatbot-proxy/internal/clova"
)

type fakeVendor struct {
	configured bool
	resp       *clova.RawResponse
	err        error
	calls      int
	lastMsg    string
}

func (f *fakeVendor) Configured() bool { return f.configured }

func (f *fakeVendor) Send(ctx context.Context, message string) (*clova.RawResponse, error) {
	f.calls++
	f.lastMsg = message
	return f.resp, f.err
}

func okVendor() *fakeVendor {
	return &fakeVendor{
		configured: true,
		resp: &clova.RawResponse{
			StatusCode: http.StatusOK,
			Body:       json.RawMessage(`{"status":{"code":"20000","message":"OK"},"result":{"message":{"role":"assistant","content":"4년마다 재검사를 받습니다."}}}`),
		},
	}
}

func serve(h http.Handler, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandler_Preflight(t *testing.T) {
	vendor := okVendor()
	rec := serve(NewHandler(vendor, nil), http.MethodOptions, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assertCORS(t, rec)
	assert.Zero(t, vendor.calls)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := serve(NewHandler(okVendor(), nil), method, "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assertCORS(t, rec)
		assert.Equal(t, "Method not allowed", decodeError(t, rec).Error)
	}
}

func TestHandler_InvalidMessage(t *testing.T) {
	bodies := []string{
		`{"message": ""}`,
		`{"message": "   "}`,
		`{"message": 42}`,
		`{"message": null}`,
		`{}`,
		`not json`,
		``,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			vendor := okVendor()
			rec := serve(NewHandler(vendor, nil), http.MethodPost, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assertCORS(t, rec)
			assert.Equal(t, "Message is required and must be a non-empty string", decodeError(t, rec).Error)
			assert.Zero(t, vendor.calls)
		})
	}
}

func TestHandler_MissingConfiguration(t *testing.T) {
	vendor := &fakeVendor{configured: false}
	rec := serve(NewHandler(vendor, nil), http.MethodPost, `{"message": "안전검사 주기는?"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Server configuration error"}`, rec.Body.String())
	assert.Zero(t, vendor.calls)
}

func TestHandler_Success_PassesVendorBody(t *testing.T) {
	vendor := okVendor()
	rec := serve(NewHandler(vendor, nil), http.MethodPost, `{"message": "안전검사 주기는?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assertCORS(t, rec)
	assert.JSONEq(t, string(vendor.resp.Body), rec.Body.String())
	assert.Equal(t, "안전검사 주기는?", vendor.lastMsg)
}

func TestHandler_UpstreamFailure(t *testing.T) {
	vendor := &fakeVendor{
		configured: true,
		resp: &clova.RawResponse{
			StatusCode: http.StatusTooManyRequests,
			Body:       json.RawMessage(`{"status":{"code":"42901","message":"Too many requests"}}`),
		},
	}
	rec := serve(NewHandler(vendor, nil), http.MethodPost, `{"message": "질문"}`)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"CLOVA API request failed","details":{"status":{"code":"42901","message":"Too many requests"}}}`, rec.Body.String())
}

func TestHandler_UpstreamFailure_NonJSONBody(t *testing.T) {
	vendor := &fakeVendor{
		configured: true,
		resp:       &clova.RawResponse{StatusCode: http.StatusBadGateway, Body: []byte("<html>Bad Gateway</html>")},
	}
	rec := serve(NewHandler(vendor, nil), http.MethodPost, `{"message": "질문"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"CLOVA API request failed","details":"<html>Bad Gateway</html>"}`, rec.Body.String())
}

func TestHandler_TransportFailure(t *testing.T) {
	vendor := &fakeVendor{configured: true, err: errors.New("dial tcp: connection refused")}
	rec := serve(NewHandler(vendor, nil), http.MethodPost, `{"message": "질문"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error","message":"Failed to connect to CLOVA Studio API"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHandler_EndToEnd_WithClovaClient(t *testing.T) {
	var gotSignature string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get(clova.HeaderSignature)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":{"code":"20000","message":"OK"},"result":{"message":{"role":"assistant","content":"검사 주기는 4년입니다."}}}`))
	}))
	defer upstream.Close()

	client := clova.NewClient(clova.Config{
		Credentials: clova.Credentials{AccessKey: "ak-secret-id", SecretKey: "sk-secret-value", APIKey: "api-secret-value"},
		BaseURL:     upstream.URL,
	})

	rec := serve(NewHandler(client, nil), http.MethodPost, `{"message": "안전검사 주기는?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, gotSignature)

	var resp clova.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Content())

	for _, secret := range []string{"sk-secret-value", "api-secret-value"} {
		assert.NotContains(t, rec.Body.String(), secret)
	}
}

func TestHandler_EndToEnd_NonJSONUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer upstream.Close()

	client := clova.NewClient(clova.Config{
		Credentials: clova.Credentials{AccessKey: "ak", SecretKey: "sk", APIKey: "api"},
		BaseURL:     upstream.URL,
	})

	rec := serve(NewHandler(client, nil), http.MethodPost, `{"message": "질문"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assertCORS(t, rec)
	assert.JSONEq(t, `{"error":"CLOVA API request failed","details":"<html>Bad Gateway</html>"}`, rec.Body.String())
}

func TestHandler_EndToEnd_MissingAPIKey(t *testing.T) {
	client := clova.NewClient(clova.Config{
		Credentials: clova.Credentials{AccessKey: "ak-secret-id", SecretKey: "sk-secret-value"},
	})

	rec := serve(NewHandler(client, nil), http.MethodPost, `{"message": "안전검사 주기는?"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	for _, secret := range []string{"ak-secret-id", "sk-secret-value"} {
		assert.NotContains(t, rec.Body.String(), secret)
	}
}
