// Package server implements the HTTP bridge exposing the STT provider:
// a transcription endpoint accepting raw PCM audio, a health check, a
// capability listing, and Prometheus metrics.
package server
