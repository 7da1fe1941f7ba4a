package matrix

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrMalformedEnvName is returned when an environment name does not
// follow the {interpreter}-{dependency}{version} form.
var ErrMalformedEnvName = errors.New("malformed environment name")

// interpreter, then the dependency's alpha run, then the pin digits
// with the dots removed
var envNamePattern = regexp.MustCompile(`^([a-z][a-z0-9]*)-([a-z]+)([0-9]*)$`)

// EnvName is a parsed environment name such as py37-pandas0251.
type EnvName struct {
	Raw         string
	Interpreter string
	Dependency  string
	Version     string
}

// Token returns the dependency pin token, the name without its
// interpreter prefix (pandas0251).
func (n EnvName) Token() string { return n.Dependency + n.Version }

func (n EnvName) String() string { return n.Raw }

// ParseEnvName splits an environment name into its interpreter,
// dependency and version parts.
func ParseEnvName(s string) (EnvName, error) {
	m := envNamePattern.FindStringSubmatch(s)
	if m == nil {
		return EnvName{}, fmt.Errorf("%w: %q (want {interpreter}-{dependency}{version})", ErrMalformedEnvName, s)
	}
	return EnvName{Raw: s, Interpreter: m[1], Dependency: m[2], Version: m[3]}, nil
}

// ComposeEnvName builds the environment name for one cell of the cross
// product.
func ComposeEnvName(interpreter, pin string) string {
	return interpreter + "-" + pin
}
