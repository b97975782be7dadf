package noop

import (
	"context"

	"sentinel/pkg/errors"
)

// Tracker is a no-op error tracker used when tracking is disabled
type Tracker struct{}

// New creates a new no-op tracker
func New() *Tracker {
	return &Tracker{}
}

// CaptureError does nothing
func (t *Tracker) CaptureError(_ context.Context, _ error, _ map[string]string) error {
	return nil
}

// CaptureMessage does nothing
func (t *Tracker) CaptureMessage(_ context.Context, _ string, _ errors.Level, _ map[string]string) error {
	return nil
}

// Flush does nothing
func (t *Tracker) Flush(_ context.Context) error {
	return nil
}

var _ errors.Tracker = (*Tracker)(nil)
