package gemini

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainerrors "github.com/qj0r9j0vc2/paper-bridge/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerate_ReturnsCandidateText(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		io.WriteString(w, `{
			"candidates": [{
				"content": {"parts": [{"text": ":bar_chart: *논문 분석 결과*\n"}, {"text": "요약 본문"}]},
				"finishReason": "STOP"
			}]
		}`)
	}))
	defer server.Close()

	c := NewClient("test-key", "gemini-1.5-flash", time.Second, testLogger(), server.URL)

	got, err := c.Generate(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != ":bar_chart: *논문 분석 결과*\n요약 본문" {
		t.Errorf("Generate() = %q, want concatenated parts", got)
	}

	if gotPath != "/models/gemini-1.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "summarize this" {
		t.Errorf("request contents = %+v", gotReq.Contents)
	}
	cfg := gotReq.GenerationConfig
	if cfg.Temperature != 0.3 || cfg.TopP != 0.8 || cfg.MaxOutputTokens != 4096 {
		t.Errorf("generation config = %+v", cfg)
	}
}

func TestGenerate_RateLimitIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer server.Close()

	c := NewClient("test-key", "gemini-1.5-flash", time.Second, testLogger(), server.URL)

	_, err := c.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Generate() error = nil, want transient error")
	}
	if !domainerrors.IsTransientError(err) {
		t.Errorf("429 should be transient, got %T: %v", err, err)
	}
}

func TestGenerate_ServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient("test-key", "gemini-1.5-flash", time.Second, testLogger(), server.URL)

	_, err := c.Generate(context.Background(), "prompt")
	if !domainerrors.IsTransientError(err) {
		t.Errorf("503 should be transient, got %v", err)
	}
}

func TestGenerate_BadRequestIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer server.Close()

	c := NewClient("bad-key", "gemini-1.5-flash", time.Second, testLogger(), server.URL)

	_, err := c.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Generate() error = nil, want permanent error")
	}
	if domainerrors.IsTransientError(err) {
		t.Error("400 should be permanent")
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	c := NewClient("test-key", "gemini-1.5-flash", time.Second, testLogger(), server.URL)

	if _, err := c.Generate(context.Background(), "prompt"); err == nil {
		t.Error("empty candidate list must be an error")
	}
}

func TestModel(t *testing.T) {
	c := NewClient("k", "gemini-1.5-pro", time.Second, testLogger())
	if c.Model() != "gemini-1.5-pro" {
		t.Errorf("Model() = %q", c.Model())
	}
}
