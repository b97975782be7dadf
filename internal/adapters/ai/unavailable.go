package ai

import (
	"context"

	"sentinel/pkg/errors"
)

// Unavailable is the explicit marker Generator used when no credential is
// configured. Every call fails with errors.ErrUnavailable, so pipelines can
// report the missing capability in-band instead of panicking or hiding it
// behind a lazily-initialized global.
type Unavailable struct {
	reason string
}

// NewUnavailable creates a marker generator carrying the reason calls fail.
func NewUnavailable(reason string) *Unavailable {
	return &Unavailable{reason: reason}
}

func (u *Unavailable) Name() string    { return "unavailable" }
func (u *Unavailable) Available() bool { return false }

func (u *Unavailable) err() error {
	return errors.Wrap(errors.ErrUnavailable, u.reason)
}

func (u *Unavailable) Generate(_ context.Context, _ string, _ Options) (string, error) {
	return "", u.err()
}

func (u *Unavailable) GenerateStream(_ context.Context, _ string, _ Options) *Stream {
	return errorStream(u.err())
}

func (u *Unavailable) GenerateImageStream(_ context.Context, _ string, _ Image, _ Options) *Stream {
	return errorStream(u.err())
}

func (u *Unavailable) AnalyzeImage(_ context.Context, _ Image, _ Options) (*ImageAnalysis, error) {
	return nil, u.err()
}

var _ Generator = (*Unavailable)(nil)
