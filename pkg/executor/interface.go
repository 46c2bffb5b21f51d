package executor

import "context"

// Result carries the captured output streams of a finished command.
// Stderr is kept even on success so callers can surface diagnostics.
type Result struct {
	Stdout string
	Stderr string
}

// Executor defines the interface for running external commands.
type Executor interface {
	// LookPath reports whether the named binary can be launched at all.
	LookPath(name string) (string, error)
	Execute(ctx context.Context, name string, args ...string) (Result, error)
	ExecuteInDir(ctx context.Context, dir, name string, args ...string) (Result, error)
}
