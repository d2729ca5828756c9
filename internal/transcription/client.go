package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"
)

// ErrMissingText is returned when a 200 response carries no "text" field.
var ErrMissingText = errors.New("response missing text field")

// StatusError is returned for any non-2xx response from the endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}

// Client provides HTTP client functionality for transcription API requests
type Client struct {
	config     Config
	httpClient *http.Client
}

// Config contains transcription client configuration
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Request describes a single transcription upload. AudioPath points at a WAV
// file on disk; the caller owns its lifecycle. Prompt and Temperature are
// carried for configuration completeness but are not forwarded on the wire.
type Request struct {
	AudioPath   string
	Language    string
	Model       string
	Prompt      string
	Temperature int
}

// Response represents the response from the transcription API. Text is a
// pointer so a 200 body without a "text" field is distinguishable from an
// empty transcript.
type Response struct {
	Text     *string `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// NewClient creates a new transcription HTTP client
func NewClient(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}

	if config.APIKey == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// Transcribe uploads the WAV file referenced by the request and returns the
// transcribed text. Every failure mode is reported as an error; nothing is
// retried.
func (c *Client) Transcribe(ctx context.Context, request *Request) (string, error) {
	body, contentType, err := c.createMultipartRequest(request)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "ha-whisper-api-stt/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var transcriptionResp Response
	if err := json.Unmarshal(respBody, &transcriptionResp); err != nil {
		return "", fmt.Errorf("failed to parse response JSON: %w", err)
	}

	if transcriptionResp.Text == nil {
		return "", ErrMissingText
	}

	return *transcriptionResp.Text, nil
}

// createMultipartRequest builds the multipart/form-data body: the WAV file
// as the "file" field plus the language and model fields.
func (c *Client) createMultipartRequest(request *Request) (io.Reader, string, error) {
	file, err := os.Open(request.AudioPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="audio.wav"`)
	header.Set("Content-Type", "audio/wav")

	filePart, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := io.Copy(filePart, file); err != nil {
		return nil, "", fmt.Errorf("failed to write audio data: %w", err)
	}

	if err := writer.WriteField("language", request.Language); err != nil {
		return nil, "", fmt.Errorf("failed to write language field: %w", err)
	}

	if err := writer.WriteField("model", request.Model); err != nil {
		return nil, "", fmt.Errorf("failed to write model field: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// FailureReason categorizes a transcription error for metrics labels.
func FailureReason(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrMissingText):
		return "malformed_response"
	case errors.As(err, &statusErr):
		return "remote_rejection"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case strings.Contains(err.Error(), "multipart"):
		return "encoding"
	default:
		return "transport"
	}
}
