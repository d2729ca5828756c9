// Package audio provides the PCM byte stream abstraction consumed by the STT
// provider and the WAV container encoding used to wrap buffered samples
// before upload. Streams are ordered, finite, and consumed exactly once.
package audio
