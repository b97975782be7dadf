package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/adapters/ai"
	"sentinel/pkg/errors"
)

func TestStreamDeliversInOrder(t *testing.T) {
	s := Run(context.Background(), func(_ context.Context, emit func(Event) bool) {
		emit(Event{Agent: "a", Content: "first"})
		emit(Event{Agent: "a", Content: "second", Final: true})
	})

	ev, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "first", ev.Content)

	ev, ok = s.Next()
	require.True(t, ok)
	assert.True(t, ev.Final)

	_, ok = s.Next()
	assert.False(t, ok)
}

func TestStreamCloseStopsProducer(t *testing.T) {
	stopped := make(chan struct{})
	s := Run(context.Background(), func(ctx context.Context, emit func(Event) bool) {
		defer close(stopped)
		for {
			if !emit(Event{Content: "tick"}) {
				return
			}
		}
	})

	_, ok := s.Next()
	require.True(t, ok)

	s.Close()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("producer did not stop after Close")
	}
}

func TestStreamCollect(t *testing.T) {
	s := Run(context.Background(), func(_ context.Context, emit func(Event) bool) {
		for i := 0; i < 3; i++ {
			emit(Event{Content: "e"})
		}
	})
	assert.Len(t, s.Collect(), 3)
}

func TestRelayClassifiesAndAccumulates(t *testing.T) {
	st := ai.NewStream(context.Background(), func(_ context.Context, emit func(ai.Chunk) bool) error {
		emit(ai.Chunk{Text: "Scanning data. "})
		emit(ai.Chunk{Text: "Therefore: fine."})
		return nil
	})

	var events []Event
	text, err := Relay(st, func(ev Event) bool {
		events = append(events, ev)
		return true
	}, "monitor", DefaultClassifier(ThoughtAnalysis))

	require.NoError(t, err)
	assert.Equal(t, "Scanning data. Therefore: fine.", text)
	require.Len(t, events, 2)
	assert.Equal(t, ThoughtObservation, events[0].Thought)
	assert.Equal(t, ThoughtDecision, events[1].Thought)
	assert.Equal(t, "monitor", events[0].Agent)
	assert.False(t, events[0].Final)
}

func TestRelaySurfacesModelError(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	st := ai.NewStream(context.Background(), func(_ context.Context, emit func(ai.Chunk) bool) error {
		emit(ai.Chunk{Text: "partial"})
		return wantErr
	})

	var events []Event
	text, err := Relay(st, func(ev Event) bool {
		events = append(events, ev)
		return true
	}, "monitor", DefaultClassifier(ThoughtAnalysis))

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, "partial", text)
	assert.Len(t, events, 1)
}

func TestRelayClosedConsumer(t *testing.T) {
	st := ai.NewStream(context.Background(), func(_ context.Context, emit func(ai.Chunk) bool) error {
		for {
			if !emit(ai.Chunk{Text: "x"}) {
				return nil
			}
		}
	})

	_, err := Relay(st, func(Event) bool { return false }, "monitor", DefaultClassifier(ThoughtAnalysis))
	assert.ErrorIs(t, err, errors.ErrStreamClosed)
}

func TestEmitFailureShapesTerminalEvent(t *testing.T) {
	var got Event
	emitted := EmitFailure(func(ev Event) bool {
		got = ev
		return true
	}, "monitor", errors.Wrap(errors.ErrUnavailable, "gemini"))

	require.True(t, emitted)
	assert.True(t, got.Final)
	assert.Equal(t, "model_error", got.Metadata["status"])
	assert.Contains(t, got.Content, "not configured")

	// provider detail stays in metadata, never in the content line
	assert.NotContains(t, got.Content, "gemini")
}

func TestEmitFailureSkipsClosedConsumer(t *testing.T) {
	emitted := EmitFailure(func(Event) bool {
		t.Fatal("should not emit for a closed consumer")
		return true
	}, "monitor", errors.ErrStreamClosed)
	assert.False(t, emitted)
}

func TestMetadataAccessors(t *testing.T) {
	m := map[string]any{
		"f":    1.5,
		"i":    3,
		"s":    "text",
		"b":    true,
		"list": []any{"a", "b", 7},
	}

	assert.Equal(t, 1.5, Num(m, "f"))
	assert.Equal(t, 3.0, Num(m, "i"))
	assert.Equal(t, 0.0, Num(m, "missing"))
	assert.Equal(t, "text", Str(m, "s", "d"))
	assert.Equal(t, "d", Str(m, "missing", "d"))
	assert.True(t, Bool(m, "b"))
	assert.False(t, Bool(m, "missing"))
	assert.Equal(t, []string{"a", "b"}, Strings(m, "list"))
	assert.Nil(t, Strings(m, "missing"))
}
