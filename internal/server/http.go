package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidohne/ha-whisper-api-stt/internal/audio"
	"github.com/davidohne/ha-whisper-api-stt/internal/config"
	"github.com/davidohne/ha-whisper-api-stt/internal/metrics"
	"github.com/davidohne/ha-whisper-api-stt/internal/stt"
)

// HTTPServer exposes the STT provider over HTTP for hosts that integrate
// via REST instead of linking the provider directly
type HTTPServer struct {
	server    *http.Server
	logger    *slog.Logger
	provider  *stt.Provider
	metrics   *metrics.Metrics
	startTime time.Time
}

// TranscribeResponse is the JSON body returned by the transcribe endpoint
type TranscribeResponse struct {
	Text  string `json:"text"`
	State string `json:"state"`
}

// NewHTTPServer creates a new HTTP bridge server
func NewHTTPServer(cfg config.HTTPConfig, logger *slog.Logger, provider *stt.Provider, m *metrics.Metrics) *HTTPServer {
	h := &HTTPServer{
		logger:    logger,
		provider:  provider,
		metrics:   m,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	h.setupRoutes(mux)

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// setupRoutes configures HTTP API routes
func (h *HTTPServer) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/transcribe", h.withMetrics("/api/v1/transcribe", h.handleTranscribe))
	mux.HandleFunc("/health", h.withMetrics("/health", h.handleHealth))
	mux.HandleFunc("/capabilities", h.withMetrics("/capabilities", h.handleCapabilities))
	mux.Handle("/metrics", promhttp.Handler())
}

// withMetrics wraps an HTTP handler with metrics collection
func (h *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(ww, r)

		duration := time.Since(startTime).Seconds()
		h.metrics.RecordHTTPRequest(r.Method, endpoint, strconv.Itoa(ww.statusCode), duration)

		if ww.statusCode >= 400 {
			errorType := "client_error"
			if ww.statusCode >= 500 {
				errorType = "server_error"
			}
			h.metrics.RecordHTTPError(r.Method, endpoint, errorType)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// handleTranscribe accepts a raw PCM body and returns the transcription
// result. Sample rate and channel count come from query parameters,
// defaulting to the provider's advertised capabilities.
func (h *HTTPServer) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	metadata := stt.SpeechMetadata{
		Channels:   stt.ChannelMono,
		SampleRate: stt.SampleRate16kHz,
	}

	if v := r.URL.Query().Get("sample_rate"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			http.Error(w, "Invalid sample_rate parameter", http.StatusBadRequest)
			return
		}
		metadata.SampleRate = rate
	}

	if v := r.URL.Query().Get("channels"); v != "" {
		channels, err := strconv.Atoi(v)
		if err != nil || channels <= 0 {
			http.Error(w, "Invalid channels parameter", http.StatusBadRequest)
			return
		}
		metadata.Channels = channels
	}

	stream := audio.NewReaderStream(r.Body, audio.DefaultChunkSize)
	result := h.provider.ProcessAudioStream(r.Context(), metadata, stream)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TranscribeResponse{
		Text:  result.Text,
		State: result.State.String(),
	})
}

// handleHealth returns service health information
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":         "healthy",
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// handleCapabilities returns the provider's fixed audio capability sets
func (h *HTTPServer) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"formats":          h.provider.SupportedFormats(),
		"codecs":           h.provider.SupportedCodecs(),
		"bit_rates":        h.provider.SupportedBitRates(),
		"sample_rates":     h.provider.SupportedSampleRates(),
		"channels":         h.provider.SupportedChannels(),
		"default_language": h.provider.DefaultLanguage(),
		"languages":        h.provider.SupportedLanguages(),
	})
}

// Start starts the HTTP server
func (h *HTTPServer) Start() error {
	h.logger.Info("Starting HTTP bridge server",
		slog.String("address", h.server.Addr),
	)

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("Stopping HTTP bridge server...")
	return h.server.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing.
func (h *HTTPServer) Handler() http.Handler {
	return h.server.Handler
}
