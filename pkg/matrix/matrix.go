package matrix

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoPin is returned when an environment resolves to no install
// requirement.
var ErrNoPin = errors.New("no dependency pin")

// Environment is one envlist entry. The scalar form carries just the
// name; the mapping form may pin deps and commands explicitly.
type Environment struct {
	Name     string   `yaml:"name"`
	Deps     []string `yaml:"deps,omitempty"`
	Commands []string `yaml:"commands,omitempty"`

	// Line is the entry's line in the source document.
	Line int `yaml:"-"`
}

// UnmarshalYAML for Environment handles both scalar (just the name) and mapping forms
func (e *Environment) UnmarshalYAML(value *yaml.Node) error {
	e.Line = value.Line
	if value.Kind == yaml.ScalarNode {
		e.Name = value.Value
		return nil
	}
	if err := checkFields(value, "name", "deps", "commands"); err != nil {
		return err
	}
	type environmentAlias Environment
	return value.Decode((*environmentAlias)(e))
}

// Defaults supplies the command sequence for environments that do not
// declare their own.
type Defaults struct {
	Commands []string `yaml:"commands,omitempty"`
}

// Matrix is the version matrix: the envlist plus the pin table
// resolving dependency tokens to install requirements.
type Matrix struct {
	Envs     []Environment     `yaml:"envlist"`
	Pins     map[string]string `yaml:"pins,omitempty"`
	Defaults Defaults          `yaml:"defaults,omitempty"`
}

// Env returns the named environment.
func (m *Matrix) Env(name string) (Environment, bool) {
	for _, e := range m.Envs {
		if e.Name == name {
			return e, true
		}
	}
	return Environment{}, false
}

// ResolveDeps returns the install requirements for an environment: its
// explicit deps when declared, otherwise the pin matching the name's
// dependency token.
func (m *Matrix) ResolveDeps(e Environment) ([]string, error) {
	if len(e.Deps) > 0 {
		return e.Deps, nil
	}
	name, err := ParseEnvName(e.Name)
	if err != nil {
		return nil, err
	}
	pin, ok := m.Pins[name.Token()]
	if !ok {
		return nil, fmt.Errorf("%w: environment %q has no deps and no pin for token %q", ErrNoPin, e.Name, name.Token())
	}
	return []string{pin}, nil
}

// ResolveCommands returns the command sequence for an environment,
// falling back to the matrix defaults.
func (m *Matrix) ResolveCommands(e Environment) []string {
	if len(e.Commands) > 0 {
		return e.Commands
	}
	return m.Defaults.Commands
}

// ParseMatrix decodes a matrix document with strict field checking.
func ParseMatrix(raw []byte) (*Matrix, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var m Matrix
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parse matrix: empty document")
		}
		return nil, fmt.Errorf("parse matrix: %w", err)
	}
	return &m, nil
}

// LoadMatrix reads and parses a matrix.yml.
func LoadMatrix(path string) (*Matrix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseMatrix(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// checkFields rejects mapping keys outside the known set, since custom
// unmarshalers bypass the decoder's KnownFields checking.
func checkFields(value *yaml.Node, known ...string) error {
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		found := false
		for _, k := range known {
			if key.Value == k {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
		}
	}
	return nil
}
