package wrangler

import (
	"context"

	"wrangler-in-go/pkg/frame"
)

// Wrangler is the contract every data wrangler implements, regardless
// of the computation engine executing it.
type Wrangler interface {
	// Name identifies the wrangler kind.
	Name() string

	// PreservesSampleSize reports whether Transform keeps the input
	// row count.
	PreservesSampleSize() bool

	// Fit validates the wrangler's parameters against the frame.
	Fit(ctx context.Context, f *frame.Frame) error

	// Transform computes the wrangled frame. The input frame is never
	// mutated.
	Transform(ctx context.Context, f *frame.Frame) (*frame.Frame, error)

	// FitTransform applies fit and transform in sequence.
	FitTransform(ctx context.Context, f *frame.Frame) (*frame.Frame, error)
}
