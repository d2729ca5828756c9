// Package transcription implements the HTTP client for the whisper-style
// transcription API. It uploads WAV audio as a multipart form with bearer
// authentication and decodes the JSON transcript from the response. Each
// call is single-shot: no retries and no request fan-out.
package transcription
