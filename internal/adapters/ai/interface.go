package ai

import "context"

// ThinkingLevel controls how much internal reasoning the model performs
// before answering.
type ThinkingLevel string

const (
	// ThinkingMinimal is fastest, almost no internal reasoning.
	ThinkingMinimal ThinkingLevel = "minimal"

	// ThinkingLow is light reasoning, suited to streaming output.
	ThinkingLow ThinkingLevel = "low"

	// ThinkingHigh is deep reasoning, best quality.
	ThinkingHigh ThinkingLevel = "high"
)

// Options configures a single generation call.
type Options struct {
	Model    string        // empty means the client default
	Thinking ThinkingLevel // empty means ThinkingLow
}

// Image is an inline image payload for multimodal calls.
type Image struct {
	Data    []byte
	Subtype string // MIME subtype: png, jpeg, webp, gif
}

// MIMEType returns the full MIME type, defaulting to image/png.
func (i Image) MIMEType() string {
	if i.Subtype == "" {
		return "image/png"
	}
	return "image/" + i.Subtype
}

// ImageAnalysis is the structured result of analyzing a product screenshot.
type ImageAnalysis struct {
	ProductName    string
	Price          string
	Currency       string
	Features       []string
	ReviewsSummary string
	PromoSignals   []string
	Confidence     float64
	RawText        string
}

// Generator is the opaque text-generation capability every pipeline depends
// on. Implementations must be safe for concurrent independent invocation.
type Generator interface {
	Name() string

	// Available reports whether the underlying client was constructed with a
	// usable credential. Calls on an unavailable generator fail with
	// errors.ErrUnavailable so each phase can degrade in-band.
	Available() bool

	// Generate produces a single text blob for the prompt.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)

	// GenerateStream produces a pull-based stream of text fragments.
	GenerateStream(ctx context.Context, prompt string, opts Options) *Stream

	// GenerateImageStream is the multimodal variant: prompt plus inline image.
	GenerateImageStream(ctx context.Context, prompt string, img Image, opts Options) *Stream

	// AnalyzeImage extracts structured product data from a screenshot.
	AnalyzeImage(ctx context.Context, img Image, opts Options) (*ImageAnalysis, error)
}

// Completer produces a parsed JSON object from a system/user prompt pair.
// It backs the one-shot structured analysis path where streaming is not
// needed.
type Completer interface {
	Name() string
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (map[string]any, error)
}
