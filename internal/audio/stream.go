package audio

import (
	"bytes"
	"context"
	"errors"
	"io"
)

// Stream is an ordered, finite sequence of raw PCM byte chunks. Next returns
// the next chunk, or io.EOF once the stream is exhausted. A Stream is not
// restartable: callers consume it exactly once.
type Stream interface {
	Next(ctx context.Context) ([]byte, error)
}

// ChunkStream adapts a fixed slice of chunks into a Stream. It is the
// canonical shape for audio handed over by a host runtime that delivers
// buffered frames.
type ChunkStream struct {
	chunks [][]byte
	pos    int
}

// NewChunkStream creates a Stream over the given chunks in order.
func NewChunkStream(chunks ...[]byte) *ChunkStream {
	return &ChunkStream{chunks: chunks}
}

// Next returns the next chunk in order, or io.EOF when exhausted.
func (s *ChunkStream) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

// ReaderStream adapts an io.Reader into a Stream, reading fixed-size chunks.
// It is used by the HTTP bridge to feed request bodies into the provider.
type ReaderStream struct {
	r       io.Reader
	bufSize int
}

// DefaultChunkSize is the read size used by ReaderStream. 4096 bytes is
// 128ms of mono 16-bit audio at 16kHz.
const DefaultChunkSize = 4096

// NewReaderStream creates a Stream that reads chunks of up to chunkSize
// bytes from r. A chunkSize <= 0 selects DefaultChunkSize.
func NewReaderStream(r io.Reader, chunkSize int) *ReaderStream {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ReaderStream{r: r, bufSize: chunkSize}
}

// Next reads the next chunk from the underlying reader.
func (s *ReaderStream) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, s.bufSize)
	n, err := s.r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

// Drain consumes the stream to completion and returns all bytes concatenated
// in chunk order. An empty stream yields an empty buffer and no error. Any
// error other than io.EOF aborts the drain.
func Drain(ctx context.Context, stream Stream) ([]byte, error) {
	var buf bytes.Buffer
	for {
		chunk, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf.Bytes(), nil
			}
			return nil, err
		}
		buf.Write(chunk)
	}
}
