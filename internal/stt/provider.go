package stt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/davidohne/ha-whisper-api-stt/internal/audio"
	"github.com/davidohne/ha-whisper-api-stt/internal/config"
	"github.com/davidohne/ha-whisper-api-stt/internal/metrics"
	"github.com/davidohne/ha-whisper-api-stt/internal/transcription"
)

// Failure reasons recorded before a request reaches the transcription client.
const (
	reasonEmptyInput = "empty_input"
	reasonDrain      = "stream_drain"
	reasonEncoding   = "encoding"
	reasonTempFile   = "temp_file"
)

// Provider is the transcription adapter. Each call is single-shot and
// synchronous: drain the stream, encode, one upload, one response. A
// Provider is safe for concurrent use; every invocation owns its buffer and
// temporary file exclusively.
type Provider struct {
	cfg     config.STTConfig
	client  *transcription.Client
	logger  *slog.Logger
	metrics *metrics.Metrics

	// tempDir holds per-call WAV files. Defaults to the system temp
	// directory.
	tempDir string
}

// NewProvider creates a provider from validated configuration.
func NewProvider(cfg config.STTConfig, logger *slog.Logger, m *metrics.Metrics) (*Provider, error) {
	client, err := transcription.NewClient(transcription.Config{
		Endpoint: cfg.URL,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.GetTimeoutDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription client: %w", err)
	}

	return &Provider{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		metrics: m,
		tempDir: os.TempDir(),
	}, nil
}

// DefaultLanguage returns the first entry of the configured language list.
func (p *Provider) DefaultLanguage() string {
	return p.cfg.DefaultLanguage()
}

// SupportedLanguages returns the configured language list in order.
func (p *Provider) SupportedLanguages() []string {
	return p.cfg.SupportedLanguages()
}

// SupportedFormats returns the supported audio container formats.
func (p *Provider) SupportedFormats() []string {
	return []string{FormatWAV}
}

// SupportedCodecs returns the supported audio codecs.
func (p *Provider) SupportedCodecs() []string {
	return []string{CodecPCM}
}

// SupportedBitRates returns the supported sample bit widths.
func (p *Provider) SupportedBitRates() []int {
	return []int{BitRate16}
}

// SupportedSampleRates returns the supported sample rates in Hz.
func (p *Provider) SupportedSampleRates() []int {
	return []int{SampleRate16kHz}
}

// SupportedChannels returns the supported channel counts.
func (p *Provider) SupportedChannels() []int {
	return []int{ChannelMono}
}

// ProcessAudioStream consumes the audio stream and returns the transcription
// outcome. Every failure collapses to an error result with empty text; the
// caller never sees an unhandled fault or a diagnostic payload.
func (p *Provider) ProcessAudioStream(ctx context.Context, metadata SpeechMetadata, stream audio.Stream) SpeechResult {
	start := time.Now()
	p.metrics.TranscribeRequests.Inc()

	data, err := audio.Drain(ctx, stream)
	if err != nil {
		p.logger.Warn("Failed to drain audio stream", slog.String("error", err.Error()))
		p.metrics.RecordTranscribeFailure(reasonDrain)
		return errorResult()
	}

	if len(data) == 0 {
		p.logger.Warn("Received empty audio stream")
		p.metrics.RecordTranscribeFailure(reasonEmptyInput)
		return errorResult()
	}

	p.metrics.AudioBytes.Observe(float64(len(data)))

	wavData, err := audio.EncodeWAV(data, metadata.Channels, metadata.SampleRate)
	if err != nil {
		p.logger.Warn("Failed to encode WAV container",
			slog.Int("channels", metadata.Channels),
			slog.Int("sample_rate", metadata.SampleRate),
			slog.String("error", err.Error()),
		)
		p.metrics.RecordTranscribeFailure(reasonEncoding)
		return errorResult()
	}

	// Each call gets a distinct temp file name; the filesystem namespace
	// is the only resource shared across invocations.
	tempPath := filepath.Join(p.tempDir, "stt-"+uuid.NewString()+".wav")

	if err := os.WriteFile(tempPath, wavData, 0600); err != nil {
		p.logger.Warn("Failed to write temporary WAV file",
			slog.String("path", tempPath),
			slog.String("error", err.Error()),
		)
		p.metrics.RecordTranscribeFailure(reasonTempFile)
		return errorResult()
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			p.logger.Warn("Failed to remove temporary WAV file",
				slog.String("path", tempPath),
				slog.String("error", err.Error()),
			)
		}
	}()

	text, err := p.client.Transcribe(ctx, &transcription.Request{
		AudioPath:   tempPath,
		Language:    p.cfg.Language,
		Model:       p.cfg.Model,
		Prompt:      p.cfg.Prompt,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		reason := transcription.FailureReason(err)
		p.logger.Warn("Transcription request failed",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		p.metrics.RecordTranscribeFailure(reason)
		return errorResult()
	}

	duration := time.Since(start)
	p.metrics.TranscribeSuccesses.Inc()
	p.metrics.TranscribeDuration.Observe(duration.Seconds())

	p.logger.Debug("Transcription completed",
		slog.Int("audio_bytes", len(data)),
		slog.Int("text_length", len(text)),
		slog.Duration("duration", duration),
	)

	return successResult(text)
}
