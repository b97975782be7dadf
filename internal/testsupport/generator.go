// Package testsupport provides in-memory fakes for pipeline tests.
package testsupport

import (
	"context"
	"sync"

	"sentinel/internal/adapters/ai"
	"sentinel/pkg/errors"
)

// Call is one scripted model invocation.
type Call struct {
	Text string
	Err  error
}

// ScriptedGenerator replays canned responses in call order across all
// Generate* methods. Each text response is split into ChunkSize fragments
// when streamed. Prompts are recorded for assertion.
type ScriptedGenerator struct {
	mu        sync.Mutex
	calls     []Call
	next      int
	ChunkSize int
	Analysis  *ai.ImageAnalysis
	Prompts   []string
}

// NewScriptedGenerator builds a fake that replays the given calls.
func NewScriptedGenerator(calls ...Call) *ScriptedGenerator {
	return &ScriptedGenerator{calls: calls, ChunkSize: 24}
}

// Responses is a shorthand constructor for all-success scripts.
func Responses(texts ...string) *ScriptedGenerator {
	calls := make([]Call, len(texts))
	for i, t := range texts {
		calls[i] = Call{Text: t}
	}
	return NewScriptedGenerator(calls...)
}

func (g *ScriptedGenerator) Name() string    { return "scripted" }
func (g *ScriptedGenerator) Available() bool { return true }

func (g *ScriptedGenerator) take(prompt string) Call {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Prompts = append(g.Prompts, prompt)
	if g.next >= len(g.calls) {
		return Call{Err: errors.New("scripted generator: no responses left")}
	}
	call := g.calls[g.next]
	g.next++
	return call
}

// CallCount reports how many generate calls were made.
func (g *ScriptedGenerator) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Prompts)
}

func (g *ScriptedGenerator) Generate(_ context.Context, prompt string, _ ai.Options) (string, error) {
	call := g.take(prompt)
	return call.Text, call.Err
}

func (g *ScriptedGenerator) GenerateStream(ctx context.Context, prompt string, _ ai.Options) *ai.Stream {
	return g.streamCall(ctx, prompt)
}

func (g *ScriptedGenerator) GenerateImageStream(ctx context.Context, prompt string, _ ai.Image, _ ai.Options) *ai.Stream {
	return g.streamCall(ctx, prompt)
}

func (g *ScriptedGenerator) streamCall(ctx context.Context, prompt string) *ai.Stream {
	call := g.take(prompt)
	size := g.ChunkSize
	if size <= 0 {
		size = 24
	}

	return ai.NewStream(ctx, func(_ context.Context, emit func(ai.Chunk) bool) error {
		text := call.Text
		for len(text) > 0 {
			n := size
			if n > len(text) {
				n = len(text)
			}
			if !emit(ai.Chunk{Text: text[:n]}) {
				return nil
			}
			text = text[n:]
		}
		return call.Err
	})
}

func (g *ScriptedGenerator) AnalyzeImage(_ context.Context, _ ai.Image, _ ai.Options) (*ai.ImageAnalysis, error) {
	if g.Analysis == nil {
		return nil, errors.Wrap(errors.ErrEmptyResponse, "scripted generator: no analysis configured")
	}
	return g.Analysis, nil
}

var _ ai.Generator = (*ScriptedGenerator)(nil)

// StaticCompleter returns a fixed JSON object or error for every call.
type StaticCompleter struct {
	Result map[string]any
	Err    error
	Calls  int
}

func (c *StaticCompleter) Name() string { return "static" }

func (c *StaticCompleter) CompleteJSON(_ context.Context, _, _ string) (map[string]any, error) {
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Result, nil
}

var _ ai.Completer = (*StaticCompleter)(nil)
