package engine

import (
	"context"

	"wrangler-in-go/pkg/frame"
	"wrangler-in-go/pkg/wrangler/interval"
)

// Vectorized runs the cumulative-sum algorithm over each group in
// order.
type Vectorized struct{}

// Name implements Engine.
func (Vectorized) Name() string { return "vectorized" }

// Transform implements Engine.
func (Vectorized) Transform(ctx context.Context, ident *interval.Identifier, f *frame.Frame) (*frame.Frame, error) {
	return ident.Apply(ctx, f, ident.Cumsum)
}
