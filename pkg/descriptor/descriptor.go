package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Source maps the distribution to its package root directory.
type Source struct {
	Root string `yaml:"root"`

	// Line is the mapping's line in the source document.
	Line int `yaml:"-"`
}

// UnmarshalYAML captures the mapping's line.
func (s *Source) UnmarshalYAML(value *yaml.Node) error {
	s.Line = value.Line
	type sourceAlias Source
	return value.Decode((*sourceAlias)(s))
}

// Lint configures the linter run over the package.
type Lint struct {
	Exclude []string `yaml:"exclude,omitempty"`
}

// Tests configures the test runner: coverage reporting and the
// category markers grouping tests by dependency back-end.
type Tests struct {
	Coverage bool     `yaml:"coverage"`
	Markers  []string `yaml:"markers,omitempty"`
}

// Descriptor is the package metadata declared in package.yml.
type Descriptor struct {
	Name         string              `yaml:"name"`
	Author       string              `yaml:"author,omitempty"`
	Email        string              `yaml:"email,omitempty"`
	License      string              `yaml:"license,omitempty"`
	URL          string              `yaml:"url,omitempty"`
	Description  string              `yaml:"description,omitempty"`
	Dependencies []string            `yaml:"dependencies,omitempty"`
	Extras       map[string][]string `yaml:"extras,omitempty"`
	Source       Source              `yaml:"source"`
	Lint         Lint                `yaml:"lint,omitempty"`
	Tests        Tests               `yaml:"tests,omitempty"`
}

// Extra returns the named extras group.
func (d *Descriptor) Extra(name string) []string {
	return d.Extras[name]
}

// Parse decodes a descriptor document with strict field checking.
func Parse(raw []byte) (*Descriptor, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var d Descriptor
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parse descriptor: empty document")
		}
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}
	return &d, nil
}

// Load reads and parses a package.yml.
func Load(path string) (*Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
