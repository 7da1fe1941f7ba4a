package matrix

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selector is one ci env entry, KEY=pin. The key becomes an
// environment variable on every cell the pin produces.
type Selector struct {
	Key string
	Pin string

	// Line is the entry's line in the source document.
	Line int
}

func (s Selector) String() string { return s.Key + "=" + s.Pin }

// UnmarshalYAML parses the KEY=pin scalar form.
func (s *Selector) UnmarshalYAML(value *yaml.Node) error {
	s.Line = value.Line
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: env selector must be a KEY=pin string", value.Line)
	}
	key, pin, ok := strings.Cut(value.Value, "=")
	if !ok || key == "" || pin == "" {
		return fmt.Errorf("line %d: env selector %q is not of the form KEY=pin", value.Line, value.Value)
	}
	s.Key = key
	s.Pin = pin
	return nil
}

// Exclusion allowlists one (interpreter, environment) cell to skip.
type Exclusion struct {
	Interpreter string `yaml:"interpreter"`
	Env         string `yaml:"env"`

	// Line is the entry's line in the source document.
	Line int `yaml:"-"`
}

// UnmarshalYAML captures the entry's line alongside the pair.
func (x *Exclusion) UnmarshalYAML(value *yaml.Node) error {
	x.Line = value.Line
	if err := checkFields(value, "interpreter", "env"); err != nil {
		return err
	}
	type exclusionAlias Exclusion
	return value.Decode((*exclusionAlias)(x))
}

// Stages are the lifecycle hooks around each cell.
type Stages struct {
	BeforeInstall []string `yaml:"before_install,omitempty"`
	Install       []string `yaml:"install,omitempty"`
	Script        []string `yaml:"script,omitempty"`
	AfterSuccess  []string `yaml:"after_success,omitempty"`
}

// CIDescriptor drives the matrix: the interpreters crossed against the
// pin selectors, the exclusion allowlist and the stage hooks.
type CIDescriptor struct {
	Interpreters []string    `yaml:"interpreters"`
	Env          []Selector  `yaml:"env"`
	Exclusions   []Exclusion `yaml:"exclusions,omitempty"`
	Stages       Stages      `yaml:"stages,omitempty"`
}

// ExcludedPair reports whether the (interpreter, environment) cell is
// on the exclusion allowlist.
func (ci *CIDescriptor) ExcludedPair(interpreter, env string) bool {
	for _, x := range ci.Exclusions {
		if x.Interpreter == interpreter && x.Env == env {
			return true
		}
	}
	return false
}

// ParseCI decodes a ci document with strict field checking.
func ParseCI(raw []byte) (*CIDescriptor, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var ci CIDescriptor
	if err := dec.Decode(&ci); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parse ci: empty document")
		}
		return nil, fmt.Errorf("parse ci: %w", err)
	}
	return &ci, nil
}

// LoadCI reads and parses a ci.yml.
func LoadCI(path string) (*CIDescriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ci, err := ParseCI(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ci, nil
}
