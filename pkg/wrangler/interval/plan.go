package interval

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"wrangler-in-go/pkg/frame"
	"wrangler-in-go/pkg/wrangler"
)

// Plan is one interval identification request as read from a plan
// document or an API payload. Plan files may carry comments and
// trailing commas.
type Plan struct {
	MarkerColumn     string              `json:"marker_column"`
	MarkerStart      json.RawMessage     `json:"marker_start"`
	MarkerEnd        json.RawMessage     `json:"marker_end,omitempty"`
	OrderColumns     wrangler.StringList `json:"order_columns,omitempty"`
	GroupByColumns   wrangler.StringList `json:"groupby_columns,omitempty"`
	Ascending        wrangler.BoolList   `json:"ascending,omitempty"`
	TargetColumnName string              `json:"target_column_name,omitempty"`
	Strategy         Strategy            `json:"strategy,omitempty"`
	Engine           string              `json:"engine,omitempty"`
}

// LoadPlan reads a plan file.
func LoadPlan(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	plan, err := ParsePlan(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// ParsePlan parses a plan document.
func ParsePlan(raw []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(jsonc.ToJSON(raw), &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if p.MarkerColumn == "" {
		return nil, fmt.Errorf("%w: marker_column is required", wrangler.ErrInvalidParams)
	}
	if len(p.MarkerStart) == 0 {
		return nil, fmt.Errorf("%w: marker_start is required", wrangler.ErrInvalidParams)
	}
	return &p, nil
}

// Identifier builds the identifier the plan describes. An explicit
// null marker is valid, comparison is null safe; an absent marker_end
// selects counting mode.
func (p *Plan) Identifier() (*Identifier, error) {
	start, err := decodeMarker(p.MarkerStart)
	if err != nil {
		return nil, fmt.Errorf("%w: marker_start: %v", wrangler.ErrInvalidParams, err)
	}
	ident := &Identifier{
		MarkerColumn:     p.MarkerColumn,
		MarkerStart:      start,
		OrderColumns:     p.OrderColumns,
		GroupByColumns:   p.GroupByColumns,
		Ascending:        p.Ascending,
		TargetColumnName: p.TargetColumnName,
		Strategy:         p.Strategy,
	}
	if len(p.MarkerEnd) != 0 {
		end, err := decodeMarker(p.MarkerEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: marker_end: %v", wrangler.ErrInvalidParams, err)
		}
		ident.MarkerEnd = end
		ident.HasMarkerEnd = true
	}
	return ident, nil
}

// decodeMarker turns a JSON scalar into a cell value. String markers
// go through the same type inference as text cells, so times and
// numbers written as strings match their typed columns.
func decodeMarker(raw json.RawMessage) (frame.Value, error) {
	var x interface{}
	if err := json.Unmarshal(raw, &x); err != nil {
		return frame.Null(), err
	}
	switch t := x.(type) {
	case nil:
		return frame.Null(), nil
	case bool:
		return frame.Bool(t), nil
	case float64:
		return frame.Float(t), nil
	case string:
		return frame.Parse(t), nil
	default:
		return frame.Null(), fmt.Errorf("marker must be a scalar")
	}
}
