package ai

import (
	"context"
	"io"
	"sync"
)

// Chunk is a single fragment of streamed model output.
type Chunk struct {
	Text string

	// Thought is the native model-reasoning flag, set when the provider marks
	// the fragment as internal thinking rather than answer text.
	Thought bool
}

// Stream is a pull-based cursor over streamed model output. The producer
// writes to an unbuffered channel, so the consumer's read pace is the only
// thing driving generation. Close cancels the underlying remote call;
// ceasing to consume without Close leaks the producer until its context
// expires, so callers must always Close.
type Stream struct {
	chunks chan Chunk
	errc   chan error
	cancel context.CancelFunc
	once   sync.Once

	done bool
	err  error
}

// NewStream starts produce in a goroutine and returns a cursor over its
// emitted chunks. The emit callback returns false once the stream is closed;
// producers must stop when that happens. A non-nil error from produce is
// surfaced by the terminal Next call.
func NewStream(ctx context.Context, produce func(ctx context.Context, emit func(Chunk) bool) error) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		chunks: make(chan Chunk),
		errc:   make(chan error, 1),
		cancel: cancel,
	}

	go func() {
		defer close(s.chunks)
		defer cancel()

		err := produce(ctx, func(c Chunk) bool {
			select {
			case s.chunks <- c:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			s.errc <- err
		}
	}()

	return s
}

// errorStream returns an already-terminated stream surfacing err.
func errorStream(err error) *Stream {
	s := &Stream{
		chunks: make(chan Chunk),
		errc:   make(chan error, 1),
		cancel: func() {},
	}
	close(s.chunks)
	s.errc <- err
	return s
}

// Next blocks until the next chunk is available. It returns io.EOF once the
// stream is exhausted, or the provider error that terminated it. After the
// first non-nil error every subsequent call returns the same error.
func (s *Stream) Next() (Chunk, error) {
	if s.done {
		return Chunk{}, s.err
	}

	c, ok := <-s.chunks
	if ok {
		return c, nil
	}

	s.done = true
	select {
	case err := <-s.errc:
		s.err = err
	default:
		s.err = io.EOF
	}
	return Chunk{}, s.err
}

// Close stops the producer and releases the underlying connection. Safe to
// call multiple times and concurrently with Next.
func (s *Stream) Close() {
	s.once.Do(s.cancel)
}
