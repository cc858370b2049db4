package qna

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Source fetches the raw dataset bytes.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Location describes where the data comes from, for logging.
	Location() string
}

// NewSource picks an HTTPSource for http(s) locations and a FileSource otherwise.
func NewSource(location string, client *http.Client) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, client)
	}
	return FileSource{Path: location}
}

// HTTPSource fetches the dataset from a static URL, bypassing caches.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client gets a 30s-timeout default.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{url: url, client: client}
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: %d %s", s.url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Location implements Source.
func (s *HTTPSource) Location() string { return s.url }

// FileSource reads the dataset from local disk.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return data, nil
}

// Location implements Source.
func (s FileSource) Location() string { return s.Path }

// StaticSource serves fixed bytes. Handy for embedding fixtures.
type StaticSource []byte

// Fetch implements Source.
func (s StaticSource) Fetch(ctx context.Context) ([]byte, error) {
	return []byte(s), nil
}

// Location implements Source.
func (s StaticSource) Location() string { return "static" }

var (
	_ Source = (*HTTPSource)(nil)
	_ Source = FileSource{}
	_ Source = StaticSource(nil)
)
