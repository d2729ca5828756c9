package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidohne/ha-whisper-api-stt/internal/config"
	"github.com/davidohne/ha-whisper-api-stt/internal/metrics"
	"github.com/davidohne/ha-whisper-api-stt/internal/stt"
)

// newBridge builds an HTTPServer whose provider points at the given mock
// transcription endpoint.
func newBridge(t *testing.T, endpoint string) *HTTPServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewMetrics(prometheus.NewRegistry())

	provider, err := stt.NewProvider(config.STTConfig{
		APIKey:   "test-key",
		Language: "en-US",
		Model:    "whisper-1",
		URL:      endpoint,
		Timeout:  5,
	}, logger, m)
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	return NewHTTPServer(config.HTTPConfig{Address: "127.0.0.1", Port: 8080}, logger, provider, m)
}

func mockTranscriptionEndpoint(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": text})
	}))
}

func TestHandleTranscribe(t *testing.T) {
	upstream := mockTranscriptionEndpoint(t, "turn on the lights")
	defer upstream.Close()

	bridge := newBridge(t, upstream.URL)

	pcm := bytes.Repeat([]byte{0x01, 0x02}, 800)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe?sample_rate=16000&channels=1", bytes.NewReader(pcm))
	rec := httptest.NewRecorder()

	bridge.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TranscribeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.State != "success" {
		t.Errorf("Expected state success, got %q", resp.State)
	}

	if resp.Text != "turn on the lights" {
		t.Errorf("Expected transcript %q, got %q", "turn on the lights", resp.Text)
	}
}

func TestHandleTranscribeEmptyBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No upstream call expected for an empty body")
	}))
	defer upstream.Close()

	bridge := newBridge(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe", nil)
	rec := httptest.NewRecorder()

	bridge.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp TranscribeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.State != "error" {
		t.Errorf("Expected state error for empty body, got %q", resp.State)
	}

	if resp.Text != "" {
		t.Errorf("Expected empty text, got %q", resp.Text)
	}
}

func TestHandleTranscribeInvalidParams(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"bad sample rate", "/api/v1/transcribe?sample_rate=abc"},
		{"zero sample rate", "/api/v1/transcribe?sample_rate=0"},
		{"bad channels", "/api/v1/transcribe?channels=-1"},
	}

	bridge := newBridge(t, "https://api.example.com/transcribe")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.url, bytes.NewReader([]byte{0x01, 0x02}))
			rec := httptest.NewRecorder()

			bridge.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleTranscribeMethodNotAllowed(t *testing.T) {
	bridge := newBridge(t, "https://api.example.com/transcribe")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transcribe", nil)
	rec := httptest.NewRecorder()

	bridge.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	bridge := newBridge(t, "https://api.example.com/transcribe")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	bridge.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if body["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %v", body["status"])
	}
}

func TestHandleCapabilities(t *testing.T) {
	bridge := newBridge(t, "https://api.example.com/transcribe")

	req := httptest.NewRequest(http.MethodGet, "/capabilities", nil)
	rec := httptest.NewRecorder()

	bridge.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if body["default_language"] != "en-US" {
		t.Errorf("Expected default language en-US, got %v", body["default_language"])
	}

	formats, ok := body["formats"].([]any)
	if !ok || len(formats) != 1 || formats[0] != "wav" {
		t.Errorf("Expected formats [wav], got %v", body["formats"])
	}
}
