package wrangler

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// NormalizeAscending resolves sort flags against the order columns.
// Empty flags default to all ascending, otherwise order columns and
// ascending must have an equal number of items.
func NormalizeAscending(orderColumns []string, ascending []bool) ([]bool, error) {
	if len(ascending) == 0 {
		out := make([]bool, len(orderColumns))
		for i := range out {
			out[i] = true
		}
		return out, nil
	}
	if len(ascending) != len(orderColumns) {
		return nil, fmt.Errorf("%w: order columns and ascending must have an equal number of items (%d vs %d)",
			ErrInvalidParams, len(orderColumns), len(ascending))
	}
	return ascending, nil
}

// StringList decodes from a single scalar or a sequence, in both JSON
// and YAML documents.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = many
	return nil
}

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := value.Decode(&many); err != nil {
		return err
	}
	*l = many
	return nil
}

// BoolList decodes from a single scalar or a sequence, in both JSON
// and YAML documents.
type BoolList []bool

func (l *BoolList) UnmarshalJSON(data []byte) error {
	var one bool
	if err := json.Unmarshal(data, &one); err == nil {
		*l = BoolList{one}
		return nil
	}
	var many []bool
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected bool or list of bools: %w", err)
	}
	*l = many
	return nil
}

func (l *BoolList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var one bool
		if err := value.Decode(&one); err != nil {
			return err
		}
		*l = BoolList{one}
		return nil
	}
	var many []bool
	if err := value.Decode(&many); err != nil {
		return err
	}
	*l = many
	return nil
}
