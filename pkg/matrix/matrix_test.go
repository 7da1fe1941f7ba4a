package matrix

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixtures(t *testing.T) (*CIDescriptor, *Matrix) {
	t.Helper()
	ci, err := LoadCI(filepath.Join("testdata", "ci.yml"))
	require.NoError(t, err)
	m, err := LoadMatrix(filepath.Join("testdata", "matrix.yml"))
	require.NoError(t, err)
	return ci, m
}

func TestParseEnvName(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected EnvName
		wantErr  bool
	}{
		{name: "pandas pin", raw: "py36-pandas0232", expected: EnvName{Raw: "py36-pandas0232", Interpreter: "py36", Dependency: "pandas", Version: "0232"}},
		{name: "pyspark pin", raw: "py37-pyspark243", expected: EnvName{Raw: "py37-pyspark243", Interpreter: "py37", Dependency: "pyspark", Version: "243"}},
		{name: "no version digits", raw: "py37-dask", expected: EnvName{Raw: "py37-dask", Interpreter: "py37", Dependency: "dask", Version: ""}},
		{name: "missing separator", raw: "pandas0232", wantErr: true},
		{name: "empty dependency", raw: "py36-", wantErr: true},
		{name: "empty interpreter", raw: "-pandas0232", wantErr: true},
		{name: "digits only tail", raw: "py36-0232", wantErr: true},
		{name: "second separator", raw: "py36-pandas-0232", wantErr: true},
		{name: "uppercase", raw: "Py36-pandas0232", wantErr: true},
		{name: "alpha after digits", raw: "py36-pandas0232rc1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEnvName(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedEnvName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected.Dependency+tt.expected.Version, got.Token())
		})
	}
}

func TestLoadMatrix(t *testing.T) {
	_, m := loadFixtures(t)

	require.Len(t, m.Envs, 10)
	assert.Equal(t, "py36-pandas0192", m.Envs[0].Name)
	assert.Equal(t, 2, m.Envs[0].Line)
	assert.Empty(t, m.Envs[0].Deps)
	assert.Empty(t, m.Envs[0].Commands)

	pyspark := m.Envs[8]
	assert.Equal(t, "py36-pyspark243", pyspark.Name)
	assert.Equal(t, 10, pyspark.Line)
	assert.Len(t, pyspark.Commands, 2)

	assert.Equal(t, "pandas==0.23.2", m.Pins["pandas0232"])
	assert.Len(t, m.Defaults.Commands, 2)
}

func TestMatrix_ResolveDeps(t *testing.T) {
	_, m := loadFixtures(t)

	env, ok := m.Env("py36-pandas0192")
	require.True(t, ok)
	deps, err := m.ResolveDeps(env)
	require.NoError(t, err)
	assert.Equal(t, []string{"pandas==0.19.2"}, deps)

	deps, err = m.ResolveDeps(Environment{Name: "py36-pandas0192", Deps: []string{"pandas==1.0.0", "pyarrow"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"pandas==1.0.0", "pyarrow"}, deps)

	_, err = m.ResolveDeps(Environment{Name: "py36-numpy117"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPin)

	_, err = m.ResolveDeps(Environment{Name: "nonsense"})
	assert.ErrorIs(t, err, ErrMalformedEnvName)
}

func TestMatrix_ResolveCommands(t *testing.T) {
	_, m := loadFixtures(t)

	env, _ := m.Env("py36-pandas0192")
	assert.Equal(t, m.Defaults.Commands, m.ResolveCommands(env))

	pyspark, _ := m.Env("py36-pyspark243")
	assert.Equal(t, pyspark.Commands, m.ResolveCommands(pyspark))
	assert.NotEqual(t, m.Defaults.Commands, m.ResolveCommands(pyspark))
}

func TestParseMatrix_Strict(t *testing.T) {
	_, err := ParseMatrix([]byte("envs:\n  - py36-pandas0232\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "envs")

	_, err = ParseMatrix([]byte("envlist:\n  - name: py36-pandas0232\n    dep: pandas\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "dep"`)

	_, err = ParseMatrix(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestLoadCI(t *testing.T) {
	ci, _ := loadFixtures(t)

	assert.Equal(t, []string{"py36", "py37"}, ci.Interpreters)

	require.Len(t, ci.Env, 5)
	assert.Equal(t, Selector{Key: "WRANGLER_PIN", Pin: "pandas0192", Line: 6}, ci.Env[0])
	assert.Equal(t, "WRANGLER_PIN=pandas0192", ci.Env[0].String())

	require.Len(t, ci.Exclusions, 1)
	assert.Equal(t, "py37", ci.Exclusions[0].Interpreter)
	assert.Equal(t, "py37-pandas0192", ci.Exclusions[0].Env)
	assert.Equal(t, 14, ci.Exclusions[0].Line)

	assert.Equal(t, []string{`tox -e "$WRANGLER_ENV"`}, ci.Stages.Script)
	assert.Len(t, ci.Stages.Install, 2)
	assert.True(t, ci.ExcludedPair("py37", "py37-pandas0192"))
	assert.False(t, ci.ExcludedPair("py36", "py36-pandas0192"))
}

func TestParseCI_BadSelector(t *testing.T) {
	_, err := ParseCI([]byte("interpreters: [py36]\nenv:\n  - WRANGLER_PIN\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KEY=pin")
}

func TestExpand(t *testing.T) {
	ci, m := loadFixtures(t)

	cells, err := Expand(ci, m)
	require.NoError(t, err)
	require.Len(t, cells, 10)

	// interpreter-major, selector-minor
	ids := make([]string, len(cells))
	for i, c := range cells {
		ids[i] = c.ID()
	}
	assert.Equal(t, []string{
		"py36/py36-pandas0192", "py36/py36-pandas0232", "py36/py36-pandas0251",
		"py36/py36-dask120", "py36/py36-pyspark243",
		"py37/py37-pandas0192", "py37/py37-pandas0232", "py37/py37-pandas0251",
		"py37/py37-dask120", "py37/py37-pyspark243",
	}, ids)

	for i, c := range cells {
		assert.Equal(t, i == 5, c.Excluded, "cell %s", c.ID())
		assert.Equal(t, "WRANGLER_PIN", c.Selector.Key)
	}
}

func TestExpand_UnknownEnvironment(t *testing.T) {
	ci, m := loadFixtures(t)
	ci.Env = append(ci.Env, Selector{Key: "WRANGLER_PIN", Pin: "numpy117", Line: 99})

	_, err := Expand(ci, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownEnvironment)
	assert.Contains(t, err.Error(), "py36-numpy117")
}

func TestValidate_Clean(t *testing.T) {
	ci, m := loadFixtures(t)

	res := Validate(ci, m)
	assert.True(t, res.Valid(), "unexpected findings: %v", res.Errors)
	assert.Empty(t, res.Errors)
}

func TestValidate_Findings(t *testing.T) {
	m, err := ParseMatrix([]byte(`envlist:
  - py36-pandas0232
  - py36-pandas0232
  - bogus
  - py38-pandas0232
  - py36-numpy117
  - name: py36-dask120
defaults:
  commands: [pytest]
pins:
  pandas0232: pandas==0.23.2
  dask120: dask==1.2.0
`))
	require.NoError(t, err)

	ci, err := ParseCI([]byte(`interpreters: [py36, py37]
env:
  - PIN=pandas0232
  - PIN=dask120
  - PIN=dask120
exclusions:
  - interpreter: py39
    env: py39-pandas0232
  - interpreter: py36
    env: py37-pandas0232
  - interpreter: py36
    env: py37-pandas0232
`))
	require.NoError(t, err)

	res := Validate(ci, m)
	require.False(t, res.Valid())
	assert.Len(t, res.Errors, 12)

	all := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		all[i] = e.Error()
	}
	joined := strings.Join(all, "\n")

	assert.Contains(t, joined, `line 5: duplicate env selector for pin "dask120"`)
	assert.Contains(t, joined, `line 3: duplicate environment "py36-pandas0232"`)
	assert.Contains(t, joined, `line 4: malformed environment name: "bogus"`)
	assert.Contains(t, joined, `line 5: environment "py38-pandas0232" names interpreter "py38", which ci does not list`)
	assert.Contains(t, joined, `line 6: environment "py36-numpy117" is not selected by any ci env entry`)
	assert.Contains(t, joined, `no pin for token "numpy117"`)
	assert.Contains(t, joined, `line 3: no matrix environment "py37-pandas0232" for interpreter "py37" and pin "pandas0232"`)
	assert.Contains(t, joined, `line 4: no matrix environment "py37-dask120" for interpreter "py37" and pin "dask120"`)
	assert.Contains(t, joined, `line 7: exclusion names interpreter "py39", which ci does not list`)
	assert.Contains(t, joined, `line 9: exclusion pairs interpreter "py36" with environment "py37-pandas0232", which belongs to "py37"`)
	assert.Contains(t, joined, `line 11: duplicate exclusion of py36/py37-pandas0232`)
}

func TestValidate_PinExcludedEverywhere(t *testing.T) {
	m, err := ParseMatrix([]byte(`envlist:
  - py36-pandas0232
  - py37-pandas0232
defaults:
  commands: [pytest]
pins:
  pandas0232: pandas==0.23.2
`))
	require.NoError(t, err)

	ci, err := ParseCI([]byte(`interpreters: [py36, py37]
env:
  - PIN=pandas0232
exclusions:
  - interpreter: py36
    env: py36-pandas0232
  - interpreter: py37
    env: py37-pandas0232
`))
	require.NoError(t, err)

	res := Validate(ci, m)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Contains(t, res.Errors[0].Message, `pin "pandas0232" is excluded for every listed interpreter`)

	// a single exclusion is a legitimate skip
	ci.Exclusions = ci.Exclusions[:1]
	assert.True(t, Validate(ci, m).Valid())
}

func TestValidationResult_Merge(t *testing.T) {
	a := &ValidationResult{}
	a.addf(1, "first")
	b := &ValidationResult{}
	b.addf(0, "second")

	a.Merge(b)
	require.Len(t, a.Errors, 2)
	assert.Equal(t, "line 1: first", a.Errors[0].Error())
	assert.Equal(t, "second", a.Errors[1].Error())
	assert.False(t, a.Valid())
}
