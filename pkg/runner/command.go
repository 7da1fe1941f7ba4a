package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// Command runs shell command lines for one cell.
type Command struct {
	Dir string
	Env []string
}

// CommandResult is one command's outcome. A non-zero exit code is not
// an error: the caller decides what a failing command means.
type CommandResult struct {
	Line     string
	Output   []byte
	ExitCode int
	Duration time.Duration
}

// Run executes line via the shell. On cancellation the whole process
// group is killed, so children forked by the shell die too.
func (c *Command) Run(ctx context.Context, line string) (*CommandResult, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", line)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %q: %w", line, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr error
	select {
	case <-ctx.Done():
		syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		<-done
		return nil, ctx.Err()
	case waitErr = <-done:
	}

	res := &CommandResult{Line: line, Output: output.Bytes(), Duration: time.Since(start)}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, fmt.Errorf("run %q: %w", line, waitErr)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}
