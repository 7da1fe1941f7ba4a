package engine

import (
	"context"

	"wrangler-in-go/pkg/frame"
	"wrangler-in-go/pkg/wrangler/interval"
)

// Sequential runs the scan algorithm over each group in order.
type Sequential struct{}

// Name implements Engine.
func (Sequential) Name() string { return "sequential" }

// Transform implements Engine.
func (Sequential) Transform(ctx context.Context, ident *interval.Identifier, f *frame.Frame) (*frame.Frame, error) {
	return ident.Apply(ctx, f, ident.Scan)
}
