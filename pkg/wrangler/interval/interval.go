package interval

import (
	"context"
	"fmt"

	"wrangler-in-go/pkg/frame"
	"wrangler-in-go/pkg/wrangler"
)

// DefaultTargetColumn is the name of the id column when none is set.
const DefaultTargetColumn = "iids"

// Identifier assigns interval ids to rows of ordered, grouped data.
type Identifier struct {
	// MarkerColumn holds the opening and closing markers.
	MarkerColumn string
	// MarkerStart opens an interval.
	MarkerStart frame.Value
	// MarkerEnd closes an interval. Meaningful only when HasMarkerEnd
	// is set; without it every start marker begins a new interval.
	MarkerEnd    frame.Value
	HasMarkerEnd bool
	// OrderColumns define the row order, with one Ascending flag per
	// column (empty means all ascending). Without order columns rows
	// are taken as already ordered.
	OrderColumns []string
	Ascending    []bool
	// GroupByColumns split the data into independently identified
	// entities.
	GroupByColumns []string
	// TargetColumnName names the id column, DefaultTargetColumn when
	// empty.
	TargetColumnName string
	// Strategy selects which markers delimit an interval.
	Strategy Strategy
}

var _ wrangler.Wrangler = (*Identifier)(nil)

// Name implements wrangler.Wrangler.
func (ident *Identifier) Name() string { return "interval_identifier" }

// PreservesSampleSize implements wrangler.Wrangler. The output row
// count always equals the input row count.
func (ident *Identifier) PreservesSampleSize() bool { return true }

// IdenticalMarkers reports whether counting mode applies: the closing
// marker is absent or equal to the opening marker.
func (ident *Identifier) IdenticalMarkers() bool {
	return !ident.HasMarkerEnd || ident.MarkerStart.Equal(ident.MarkerEnd)
}

// TargetColumn resolves the name of the id column.
func (ident *Identifier) TargetColumn() string {
	if ident.TargetColumnName == "" {
		return DefaultTargetColumn
	}
	return ident.TargetColumnName
}

// Fit validates the parameters against the frame. The identifier is
// stateless, fitting does not inspect the data.
func (ident *Identifier) Fit(ctx context.Context, f *frame.Frame) error {
	_ = ctx
	return ident.Validate(f)
}

// Validate checks the parameters and the referenced columns.
func (ident *Identifier) Validate(f *frame.Frame) error {
	if ident.MarkerColumn == "" {
		return fmt.Errorf("%w: marker column is required", wrangler.ErrInvalidParams)
	}
	if !ident.Strategy.IsAStrategy() {
		return fmt.Errorf("%w: unknown strategy %d", wrangler.ErrInvalidParams, int(ident.Strategy))
	}
	if _, err := wrangler.NormalizeAscending(ident.OrderColumns, ident.Ascending); err != nil {
		return err
	}
	if err := f.RequireColumns(ident.MarkerColumn); err != nil {
		return err
	}
	if err := f.RequireColumns(ident.OrderColumns...); err != nil {
		return err
	}
	return f.RequireColumns(ident.GroupByColumns...)
}

// Transform computes interval ids with the scan algorithm and returns
// the frame with the target column attached.
func (ident *Identifier) Transform(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return ident.Apply(ctx, f, ident.Scan)
}

// FitTransform applies fit and transform in sequence.
func (ident *Identifier) FitTransform(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if err := ident.Fit(ctx, f); err != nil {
		return nil, err
	}
	return ident.Transform(ctx, f)
}

// Apply runs one id algorithm over every ordered group and scatters
// the ids back to the original row positions.
func (ident *Identifier) Apply(ctx context.Context, f *frame.Frame, algo func([]frame.Value) []int64) (*frame.Frame, error) {
	prep, err := ident.Prepare(f)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, f.Len())
	for _, g := range prep.Groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := algo(prep.GroupMarkers(g))
		for k, row := range g.Rows {
			ids[row] = res[k]
		}
	}
	return prep.Scatter(f, ident.TargetColumn(), ids)
}

// Prepared is a frame sorted and grouped for id assignment.
type Prepared struct {
	// Marker is the marker column in sorted order.
	Marker frame.Column
	// Groups partition the sorted rows, in first-appearance order.
	Groups []frame.Group
	// Perm maps sorted row positions to original row positions.
	Perm []int
}

// Prepare validates, sorts and groups the frame.
func (ident *Identifier) Prepare(f *frame.Frame) (*Prepared, error) {
	if err := ident.Validate(f); err != nil {
		return nil, err
	}
	ascending, err := wrangler.NormalizeAscending(ident.OrderColumns, ident.Ascending)
	if err != nil {
		return nil, err
	}
	sorted, perm, err := f.SortByColumns(ident.OrderColumns, ascending)
	if err != nil {
		return nil, err
	}
	groups, err := sorted.GroupBy(ident.GroupByColumns)
	if err != nil {
		return nil, err
	}
	marker, _ := sorted.Column(ident.MarkerColumn)
	return &Prepared{Marker: marker, Groups: groups, Perm: perm}, nil
}

// GroupMarkers extracts one group's marker values in sorted order.
func (p *Prepared) GroupMarkers(g frame.Group) []frame.Value {
	out := make([]frame.Value, len(g.Rows))
	for i, row := range g.Rows {
		out[i] = p.Marker.Values[row]
	}
	return out
}

// Scatter attaches ids, indexed by sorted row position, to the
// original frame as the target column.
func (p *Prepared) Scatter(f *frame.Frame, target string, ids []int64) (*frame.Frame, error) {
	values := make([]frame.Value, f.Len())
	for sortedPos, origRow := range p.Perm {
		values[origRow] = frame.Int(ids[sortedPos])
	}
	return f.WithColumn(target, values)
}
