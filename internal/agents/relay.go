package agents

import (
	"io"
	"strings"

	"sentinel/internal/adapters/ai"
	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

// Relay drives a model stream to completion, re-emitting every text fragment
// as a classified event for the given agent, and returns the accumulated
// text. The stream is always closed. A consumer walking away is reported as
// errors.ErrStreamClosed so callers can abort without emitting more events.
func Relay(st *ai.Stream, emit func(Event) bool, agent string, classify Classifier) (string, error) {
	defer st.Close()

	var sb strings.Builder
	for {
		chunk, err := st.Next()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
		if chunk.Text == "" {
			continue
		}

		sb.WriteString(chunk.Text)
		if !emit(Event{
			Agent:   agent,
			Thought: classify(chunk.Text),
			Content: chunk.Text,
		}) {
			return sb.String(), errors.ErrStreamClosed
		}
	}
}

// Drain consumes a model stream without re-emitting events and returns the
// accumulated text. Used for preparatory calls whose output feeds a later
// phase rather than the consumer.
func Drain(st *ai.Stream) (string, error) {
	defer st.Close()

	var sb strings.Builder
	for {
		chunk, err := st.Next()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(chunk.Text)
	}
}

// EmitFailure translates a model error into the single terminal event of a
// failed run. No provider error type ever crosses this boundary; consumers
// see only the event. Returns false when nothing was emitted because the
// consumer already closed the stream.
func EmitFailure(emit func(Event) bool, agent string, err error) bool {
	if errors.Is(err, errors.ErrStreamClosed) {
		return false
	}

	content := "Analysis unavailable: model call failed"
	if errors.Is(err, errors.ErrUnavailable) {
		content = "Analysis unavailable: text generation capability is not configured"
	}

	logger.Get().With("agent", agent).Errorf("model call failed: %v", err)

	return emit(Event{
		Agent:   agent,
		Thought: ThoughtDecision,
		Content: content,
		Final:   true,
		Metadata: map[string]any{
			"status": "model_error",
			"error":  err.Error(),
		},
	})
}
