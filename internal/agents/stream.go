package agents

import (
	"context"
	"sync"
)

// Stream is a pull-based cursor over a pipeline's event sequence. Events are
// produced on demand: the pipeline only advances while the consumer reads.
type Stream struct {
	events chan Event
	cancel context.CancelFunc
	once   sync.Once
}

// Run starts produce in a goroutine and returns a cursor over its events.
// The emit callback returns false once the consumer has closed the stream;
// producers must stop promptly when that happens.
func Run(ctx context.Context, produce func(ctx context.Context, emit func(Event) bool)) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		events: make(chan Event),
		cancel: cancel,
	}

	go func() {
		defer close(s.events)
		defer cancel()

		produce(ctx, func(ev Event) bool {
			select {
			case s.events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()

	return s
}

// Next blocks for the next event. ok is false once the stream is exhausted
// or closed.
func (s *Stream) Next() (Event, bool) {
	ev, ok := <-s.events
	return ev, ok
}

// Close abandons the pipeline run, cancelling any in-flight model call.
// Safe to call multiple times.
func (s *Stream) Close() {
	s.once.Do(s.cancel)
}

// Collect drains the stream into a slice. Intended for batch callers and
// tests; interactive consumers should iterate Next instead.
func (s *Stream) Collect() []Event {
	var out []Event
	for {
		ev, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}
