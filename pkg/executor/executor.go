package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type implExecutor struct{}

// New creates a new Executor instance.
func New() Executor {
	return &implExecutor{}
}

func (e *implExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (Result, error) {
	return e.run(ctx, "", name, args...)
}

func (e *implExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (Result, error) {
	return e.run(ctx, dir, name, args...)
}

func (e *implExecutor) run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		// Include stderr in the error message for debugging
		if diag := strings.TrimSpace(res.Stderr); diag != "" {
			return res, fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, diag)
		}
		return res, fmt.Errorf("command '%s' failed: %w", name, err)
	}

	return res, nil
}
