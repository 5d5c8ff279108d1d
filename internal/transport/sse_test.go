package transport

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGenerateAPIKeyFormat(t *testing.T) {
	key, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey failed: %v", err)
	}
	if len(key) != 64 {
		t.Errorf("key length = %d, want 64 hex characters", len(key))
	}
	for _, c := range key {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Fatalf("key contains non-hex character: %q", key)
		}
	}

	key2, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey failed: %v", err)
	}
	if key == key2 {
		t.Error("expected two independently generated keys to differ")
	}
}

func echoHandler(ctx context.Context, raw []byte) []byte {
	return append([]byte("echo:"), raw...)
}

func TestSSEServerRejectsMissingAuthHeader(t *testing.T) {
	s := NewSSEServer(0, "secret", echoHandler)
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	s.handleMCP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSSEServerRejectsNonBearerAuth(t *testing.T) {
	s := NewSSEServer(0, "secret", echoHandler)
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	s.handleMCP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSSEServerRejectsWrongToken(t *testing.T) {
	s := NewSSEServer(0, "secret", echoHandler)
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec := httptest.NewRecorder()

	s.handleMCP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestSSEServerAcceptsValidTokenOnPost(t *testing.T) {
	s := NewSSEServer(0, "secret", echoHandler)
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("hello"))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()

	s.handleMCP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "echo:hello" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "echo:hello")
	}
}

func TestSSEServerPostWithNilResponseReturnsAccepted(t *testing.T) {
	s := NewSSEServer(0, "secret", func(ctx context.Context, raw []byte) []byte { return nil })
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("notify"))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()

	s.handleMCP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
}

func TestSSEServerRejectsUnsupportedMethod(t *testing.T) {
	s := NewSSEServer(0, "secret", echoHandler)
	req := httptest.NewRequest(http.MethodDelete, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()

	s.handleMCP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestSSEServerEventStreamSendsConnectedEvent(t *testing.T) {
	s := NewSSEServer(0, "secret", echoHandler)
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", s.handleMCP)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer secret")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /mcp failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("failed to read first SSE line: %v", err)
	}
	if !strings.Contains(line, "connected") {
		t.Errorf("first SSE line = %q, want it to mention connected", line)
	}
}
