package descriptor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangler-in-go/pkg/matrix"
)

func loadFixture(t *testing.T) *Descriptor {
	t.Helper()
	d, err := Load(filepath.Join("testdata", "package.yml"))
	require.NoError(t, err)
	return d
}

func backendMatrix(t *testing.T) *matrix.Matrix {
	t.Helper()
	m, err := matrix.ParseMatrix([]byte(`envlist: [py36-pandas0232, py36-dask120, py36-pyspark243]
defaults:
  commands: [pytest]
pins:
  pandas0232: pandas==0.23.2
  dask120: dask==1.2.0
  pyspark243: pyspark==2.4.3
`))
	require.NoError(t, err)
	return m
}

// packageLayout creates a temporary tree with a non-empty package
// directory at root.
func packageLayout(t *testing.T, root string) string {
	t.Helper()
	dir := t.TempDir()
	full := filepath.Join(dir, filepath.FromSlash(root))
	require.NoError(t, os.MkdirAll(full, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(full, "__init__.py"), []byte("__version__ = \"0.1.0\"\n"), 0o644))
	return dir
}

func messages(res *matrix.ValidationResult) string {
	out := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		out[i] = e.Error()
	}
	return strings.Join(out, "\n")
}

func TestLoad(t *testing.T) {
	d := loadFixture(t)

	assert.Equal(t, "wrangler", d.Name)
	assert.Equal(t, "MIT", d.License)
	assert.Equal(t, []string{"pandas", "tabulate"}, d.Dependencies)
	assert.Len(t, d.Extra("testing"), 5)
	assert.Equal(t, []string{"flake8", "tox"}, d.Extra("dev"))
	assert.Nil(t, d.Extra("docs"))

	assert.Equal(t, "src/wrangler", d.Source.Root)
	assert.Equal(t, 24, d.Source.Line)
	assert.Equal(t, []string{"build", "dist"}, d.Lint.Exclude)

	assert.True(t, d.Tests.Coverage)
	assert.Equal(t, []string{"pandas", "dask", "pyspark"}, d.Tests.Markers)
}

func TestParse_Strict(t *testing.T) {
	_, err := Parse([]byte("name: wrangler\npackages: [wrangler]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "packages")

	_, err = Parse(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestValidate_Clean(t *testing.T) {
	d := loadFixture(t)
	dir := packageLayout(t, "src/wrangler")

	res := Validate(d, dir, backendMatrix(t))
	assert.True(t, res.Valid(), "unexpected findings: %v", res.Errors)
}

func TestValidate_SourceLayout(t *testing.T) {
	t.Run("root missing", func(t *testing.T) {
		d := loadFixture(t)
		res := Validate(d, t.TempDir(), nil)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Message, "not found under")
		assert.Equal(t, 24, res.Errors[0].Line)
	})

	t.Run("root is a file", func(t *testing.T) {
		d := loadFixture(t)
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "wrangler"), []byte("not a dir"), 0o644))

		res := Validate(d, dir, nil)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Message, "is not a directory")
	})

	t.Run("root empty", func(t *testing.T) {
		d := loadFixture(t)
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "wrangler"), 0o755))

		res := Validate(d, dir, nil)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Message, "is empty")
	})

	t.Run("name mismatch", func(t *testing.T) {
		d := loadFixture(t)
		d.Name = "otherpkg"
		res := Validate(d, packageLayout(t, "src/wrangler"), nil)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Message, `does not end in the package name "otherpkg"`)
	})

	t.Run("no root declared", func(t *testing.T) {
		d := loadFixture(t)
		d.Source.Root = ""
		res := Validate(d, t.TempDir(), nil)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Message, "declares no source root")
	})
}

func TestValidate_Markers(t *testing.T) {
	dir := packageLayout(t, "src/wrangler")

	t.Run("uncovered dependency", func(t *testing.T) {
		d := loadFixture(t)
		m := backendMatrix(t)
		m.Envs = append(m.Envs, matrix.Environment{Name: "py36-vaex10"})

		res := Validate(d, dir, m)
		assert.Contains(t, messages(res), `matrix dependency "vaex" has no test marker`)
	})

	t.Run("stray marker", func(t *testing.T) {
		d := loadFixture(t)
		d.Tests.Markers = append(d.Tests.Markers, "koalas")

		res := Validate(d, dir, backendMatrix(t))
		assert.Contains(t, messages(res), `test marker "koalas" matches no matrix dependency`)
	})

	t.Run("duplicate marker", func(t *testing.T) {
		d := loadFixture(t)
		d.Tests.Markers = append(d.Tests.Markers, "pandas")

		res := Validate(d, dir, backendMatrix(t))
		assert.Contains(t, messages(res), `duplicate test marker "pandas"`)
	})
}

func TestValidate_MissingMetadata(t *testing.T) {
	res := Validate(&Descriptor{}, t.TempDir(), nil)
	require.Len(t, res.Errors, 3)
	joined := messages(res)
	assert.Contains(t, joined, "descriptor has no name")
	assert.Contains(t, joined, "no runtime dependencies")
	assert.Contains(t, joined, "declares no source root")
}
