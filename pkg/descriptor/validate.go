package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"wrangler-in-go/pkg/matrix"
)

// Validate lints the descriptor against the filesystem rooted at dir
// and, when given, the version matrix. Every finding is collected.
func Validate(d *Descriptor, dir string, m *matrix.Matrix) *matrix.ValidationResult {
	res := &matrix.ValidationResult{}

	if d.Name == "" {
		addf(res, 0, "descriptor has no name")
	}
	if len(d.Dependencies) == 0 {
		addf(res, 0, "descriptor lists no runtime dependencies")
	}

	validateSource(d, dir, res)
	if m != nil {
		validateMarkers(d, m, res)
	}
	return res
}

func addf(res *matrix.ValidationResult, line int, format string, args ...interface{}) {
	res.Errors = append(res.Errors, matrix.ValidationError{
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

func validateSource(d *Descriptor, dir string, res *matrix.ValidationResult) {
	root := d.Source.Root
	if root == "" {
		addf(res, d.Source.Line, "descriptor declares no source root")
		return
	}

	full := filepath.Join(dir, filepath.FromSlash(root))
	info, err := os.Stat(full)
	switch {
	case os.IsNotExist(err):
		addf(res, d.Source.Line, "declared source root %q not found under %s", root, dir)
		return
	case err != nil:
		addf(res, d.Source.Line, "declared source root %q: %v", root, err)
		return
	case !info.IsDir():
		addf(res, d.Source.Line, "declared source root %q is not a directory", root)
		return
	}

	if d.Name != "" && filepath.Base(full) != d.Name {
		addf(res, d.Source.Line, "source root %q does not end in the package name %q", root, d.Name)
	}

	entries, err := os.ReadDir(full)
	if err == nil && len(entries) == 0 {
		addf(res, d.Source.Line, "declared source root %q is empty", root)
	}
}

// validateMarkers checks the test category markers against the
// dependency back-ends the matrix exercises.
func validateMarkers(d *Descriptor, m *matrix.Matrix, res *matrix.ValidationResult) {
	markers := map[string]bool{}
	for _, mk := range d.Tests.Markers {
		if markers[mk] {
			addf(res, 0, "duplicate test marker %q", mk)
		}
		markers[mk] = true
	}

	deps := map[string]bool{}
	for _, e := range m.Envs {
		name, err := matrix.ParseEnvName(e.Name)
		if err != nil {
			// the matrix lint owns malformed names
			continue
		}
		deps[name.Dependency] = true
	}

	ordered := make([]string, 0, len(deps))
	for dep := range deps {
		ordered = append(ordered, dep)
	}
	sort.Strings(ordered)
	for _, dep := range ordered {
		if !markers[dep] {
			addf(res, 0, "matrix dependency %q has no test marker", dep)
		}
	}
	for _, mk := range d.Tests.Markers {
		if !deps[mk] {
			addf(res, 0, "test marker %q matches no matrix dependency", mk)
		}
	}
}
