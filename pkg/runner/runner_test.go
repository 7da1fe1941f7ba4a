package runner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangler-in-go/pkg/matrix"
	"wrangler-in-go/pkg/provision"
)

const twoCellMatrix = `
envlist:
  - py36-echo1
  - py37-echo1

pins:
  echo1: tool==1.0

defaults:
  commands:
    - echo ran $WRANGLER_ENV >> ran.log
    - printf coverage > coverage.xml
    - echo finished $WRANGLER_ENV
`

const twoCellCI = `
interpreters:
  - py36
  - py37

env:
  - WRANGLER_PIN=echo1

stages:
  before_install:
    - echo before $WRANGLER_ENV >> stage.log
`

func testRunner(t *testing.T, matrixYAML, ciYAML string) (*Runner, string) {
	t.Helper()
	m, err := matrix.ParseMatrix([]byte(matrixYAML))
	require.NoError(t, err)
	ci, err := matrix.ParseCI([]byte(ciYAML))
	require.NoError(t, err)

	dir := t.TempDir()
	return &Runner{
		Matrix: m,
		CI:     ci,
		RunID:  "run-test",
		Dir:    dir,
		Logger: log.New(io.Discard, "", 0),
		Environ: func() []string {
			return []string{
				"PATH=" + os.Getenv("PATH"),
				"HOME=" + dir,
				"SECRET=hidden",
			}
		},
	}, dir
}

// fakeTool puts an executable shell script named name on the runner's
// PATH.
func fakeTool(t *testing.T, r *Runner, name, script string) {
	t.Helper()
	bin := t.TempDir()
	body := "#!/bin/sh\n" + script + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte(body), 0o755))

	base := r.Environ
	r.Environ = func() []string {
		env := base()
		for i, kv := range env {
			if strings.HasPrefix(kv, "PATH=") {
				env[i] = "PATH=" + bin + ":" + strings.TrimPrefix(kv, "PATH=")
			}
		}
		return env
	}
}

func fakeJVM(t *testing.T, root, name, version string) string {
	t.Helper()
	home := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "bin"), 0o755))
	script := "#!/bin/sh\necho 'openjdk version \"" + version + "\"' >&2\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "bin", "java"), []byte(script), 0o755))
	return home
}

type fakeUploader struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (u *fakeUploader) Upload(_ context.Context, key, path string) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return 0, u.err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	u.keys = append(u.keys, key)
	return info.Size(), nil
}

func TestRunner_Run_AllPass(t *testing.T) {
	r, dir := testRunner(t, twoCellMatrix, twoCellCI)
	fakeTool(t, r, "pip", `echo "pip $*" >> pip.log`)
	up := &fakeUploader{}
	r.Uploader = up

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sum.Results, 2)

	for _, res := range sum.Results {
		assert.Equal(t, StatePassed, res.State, res.Cell.ID())
		assert.Contains(t, res.Output, "finished "+res.Cell.Env.Name)
		assert.Positive(t, res.Duration)
		assert.Equal(t, filepath.Join(dir, "coverage.xml"), res.Coverage)
		assert.Equal(t, int64(len("coverage")), res.ArtifactSize)
	}
	assert.False(t, sum.Failed())
	assert.Equal(t, map[CellState]int{StatePassed: 2}, sum.Counts())

	ran, err := os.ReadFile(filepath.Join(dir, "ran.log"))
	require.NoError(t, err)
	assert.Equal(t, "ran py36-echo1\nran py37-echo1\n", string(ran))

	stage, err := os.ReadFile(filepath.Join(dir, "stage.log"))
	require.NoError(t, err)
	assert.Equal(t, "before py36-echo1\nbefore py37-echo1\n", string(stage))

	pip, err := os.ReadFile(filepath.Join(dir, "pip.log"))
	require.NoError(t, err)
	assert.Equal(t, "pip install tool==1.0\npip install tool==1.0\n", string(pip))

	assert.Equal(t, []string{
		"runs/run-test/py36-echo1/coverage.xml",
		"runs/run-test/py37-echo1/coverage.xml",
	}, up.keys)
}

func TestRunner_ExcludedCellsSkipCommands(t *testing.T) {
	ci := `
interpreters:
  - py36
  - py37

env:
  - WRANGLER_PIN=echo1

exclusions:
  - interpreter: py37
    env: py37-echo1
`
	m := `
envlist:
  - py36-echo1
  - py37-echo1

pins:
  echo1: tool==1.0

defaults:
  commands:
    - touch ran-$WRANGLER_ENV
`
	r, dir := testRunner(t, m, ci)
	fakeTool(t, r, "pip", ":")

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sum.Results, 2)

	assert.Equal(t, StatePassed, sum.Results[0].State)
	assert.Equal(t, StateExcluded, sum.Results[1].State)
	assert.Empty(t, sum.Results[1].Output)
	assert.False(t, sum.Failed())

	_, err = os.Stat(filepath.Join(dir, "ran-py36-echo1"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ran-py37-echo1"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunner_FailedScriptSkipsAfterSuccess(t *testing.T) {
	ci := `
interpreters:
  - py36

env:
  - WRANGLER_PIN=echo1

stages:
  after_success:
    - touch after-ran
`
	m := `
envlist:
  - py36-echo1

pins:
  echo1: tool==1.0

defaults:
  commands:
    - echo about to fail
    - false
`
	r, dir := testRunner(t, m, ci)
	fakeTool(t, r, "pip", ":")
	up := &fakeUploader{}
	r.Uploader = up

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sum.Results, 1)

	res := sum.Results[0]
	assert.Equal(t, StateFailed, res.State)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), `script: "false" exited 1`)
	assert.Contains(t, res.Output, "about to fail")
	assert.True(t, sum.Failed())

	_, err = os.Stat(filepath.Join(dir, "after-ran"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, up.keys)
}

func TestRunner_FailedInstall(t *testing.T) {
	r, _ := testRunner(t, twoCellMatrix, twoCellCI)
	fakeTool(t, r, "pip", "exit 7")

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	res := sum.Results[0]
	assert.Equal(t, StateFailed, res.State)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "install: ")
	assert.Contains(t, res.Err.Error(), "exited 7")
}

func TestRunner_EnvDeltaVisible(t *testing.T) {
	ci := `
interpreters:
  - py36

env:
  - WRANGLER_PIN=echo1
`
	m := `
envlist:
  - py36-echo1

pins:
  echo1: tool==1.0

defaults:
  commands:
    - printf '%s' "$JAVA_HOME" > javahome.txt
    - printf '%s' "$PATH" > path.txt
`
	r, dir := testRunner(t, m, ci)
	fakeTool(t, r, "pip", ":")

	root := t.TempDir()
	home := fakeJVM(t, root, "jdk8", "1.8.0_292")
	r.Provisioner = &provision.Provisioner{
		Rules:     []provision.Rule{{Marker: "echo", Major: 8}},
		Roots:     []string{root},
		LookupEnv: func(string) (string, bool) { return "", false },
	}

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatePassed, sum.Results[0].State)

	got, err := os.ReadFile(filepath.Join(dir, "javahome.txt"))
	require.NoError(t, err)
	assert.Equal(t, home, string(got))

	path, err := os.ReadFile(filepath.Join(dir, "path.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(path), filepath.Join(home, "bin")+":"),
		"PATH %q does not start with the runtime bin dir", path)
}

func TestRunner_ErroredOnProvisionFailure(t *testing.T) {
	r, _ := testRunner(t, twoCellMatrix, twoCellCI)
	r.Provisioner = &provision.Provisioner{
		Rules:     []provision.Rule{{Marker: "echo", Major: 8}},
		Roots:     []string{t.TempDir()},
		LookupEnv: func(string) (string, bool) { return "", false },
	}

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	for _, res := range sum.Results {
		assert.Equal(t, StateErrored, res.State)
		assert.ErrorIs(t, res.Err, provision.ErrNoRuntime)
	}
	assert.True(t, sum.Failed())
	assert.Equal(t, map[CellState]int{StateErrored: 2}, sum.Counts())
}

func TestRunner_Parallel(t *testing.T) {
	ci := `
interpreters:
  - py36
  - py37

env:
  - WRANGLER_PIN=a1
  - WRANGLER_PIN=b1
`
	m := `
envlist:
  - py36-a1
  - py36-b1
  - py37-a1
  - py37-b1

pins:
  a1: tool==1.0
  b1: tool==2.0

defaults:
  commands:
    - echo done $WRANGLER_ENV
`
	r, _ := testRunner(t, m, ci)
	fakeTool(t, r, "pip", ":")
	r.Parallelism = 4

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sum.Results, 4)

	// Results keep declaration order regardless of completion order.
	want := []string{"py36/py36-a1", "py36/py36-b1", "py37/py37-a1", "py37/py37-b1"}
	for i, res := range sum.Results {
		assert.Equal(t, want[i], res.Cell.ID())
		assert.Equal(t, StatePassed, res.State)
		assert.Contains(t, res.Output, "done "+res.Cell.Env.Name)
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _ := testRunner(t, twoCellMatrix, twoCellCI)
	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Allowlist(t *testing.T) {
	ci := `
interpreters:
  - py36

env:
  - WRANGLER_PIN=echo1
`
	m := `
envlist:
  - py36-echo1

pins:
  echo1: tool==1.0

defaults:
  commands:
    - echo "secret=[$SECRET]"
    - echo "pin=[$WRANGLER_PIN]"
    - echo "interp=[$WRANGLER_INTERPRETER]"
`
	r, _ := testRunner(t, m, ci)
	fakeTool(t, r, "pip", ":")

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	out := sum.Results[0].Output
	assert.Contains(t, out, "secret=[]")
	assert.Contains(t, out, "pin=[echo1]")
	assert.Contains(t, out, "interp=[py36]")
}

func TestCommand_Run(t *testing.T) {
	cmd := &Command{
		Dir: t.TempDir(),
		Env: []string{"PATH=" + os.Getenv("PATH"), "GREETING=hi"},
	}

	res, err := cmd.Run(context.Background(), "echo $GREETING; echo oops >&2")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hi\noops\n", string(res.Output))
	assert.Positive(t, res.Duration)

	res, err = cmd.Run(context.Background(), "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestCommand_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cmd := &Command{Dir: t.TempDir(), Env: []string{"PATH=" + os.Getenv("PATH")}}
	start := time.Now()
	_, err := cmd.Run(ctx, "sleep 30")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestLocateCoverage(t *testing.T) {
	dir := t.TempDir()
	_, err := LocateCoverage(dir)
	assert.ErrorIs(t, err, ErrNoCoverage)

	old := filepath.Join(dir, "coverage.xml")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))
	newer := filepath.Join(dir, "coverage-py37.xml")
	require.NoError(t, os.WriteFile(newer, []byte("new"), 0o644))

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, base, base))
	require.NoError(t, os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)))

	got, err := LocateCoverage(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, got)
}

func TestInstallCommand(t *testing.T) {
	got := installCommand([]string{"pandas==0.23.2", "pytest"})
	assert.Equal(t, `pip install 'pandas==0.23.2' 'pytest'`, got)
}

func TestTail(t *testing.T) {
	assert.Equal(t, "cdef", tail([]byte("abcdef"), 4))
	assert.Equal(t, "abc", tail([]byte("abc"), 4096))
	assert.Equal(t, "", tail(nil, 8))
}

func TestArtifactKey(t *testing.T) {
	assert.Equal(t, "runs/run-7/py36-pandas0232/coverage.xml",
		ArtifactKey("run-7", "py36-pandas0232", "coverage.xml"))
}

func TestNewRunID(t *testing.T) {
	at := time.Date(2019, 7, 21, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "run-20190721-150405", NewRunID(at))
}

func TestSummary_CountsAndFailed(t *testing.T) {
	sum := &Summary{Results: []CellResult{
		{State: StatePassed},
		{State: StatePassed},
		{State: StateExcluded},
	}}
	assert.Equal(t, map[CellState]int{StatePassed: 2, StateExcluded: 1}, sum.Counts())
	assert.False(t, sum.Failed())

	sum.Results = append(sum.Results, CellResult{State: StateErrored, Err: errors.New("boom")})
	assert.True(t, sum.Failed())
}

func TestCellState(t *testing.T) {
	assert.Equal(t, "passed", StatePassed.String())
	assert.False(t, StateRunning.Terminal())
	assert.True(t, StateFailed.Terminal())

	got, err := CellStateString("excluded")
	require.NoError(t, err)
	assert.Equal(t, StateExcluded, got)

	raw, err := json.Marshal(StateFailed)
	require.NoError(t, err)
	assert.Equal(t, `"failed"`, string(raw))

	var s CellState
	require.NoError(t, json.Unmarshal([]byte(`"pending"`), &s))
	assert.Equal(t, StatePending, s)
}
