// Package stt implements the speech-to-text provider: it drains a PCM audio
// stream, wraps it in a WAV container, uploads it to the configured
// transcription endpoint, and maps the outcome onto a two-state speech
// result. It also advertises the fixed audio capabilities a host runtime
// uses for format negotiation.
package stt
