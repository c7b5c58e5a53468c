//go:build windows

package executor

import "context"

// ProcessExecutor on Windows cannot replace a process image and always
// fails with ErrUnsupported.
type ProcessExecutor struct {
	opts Options
}

var _ Executor = (*ProcessExecutor)(nil)

func NewProcessExecutor(opts Options) *ProcessExecutor {
	return &ProcessExecutor{opts: opts}
}

func (e *ProcessExecutor) Execute(ctx context.Context, cmd Command) (*Result, error) {
	return nil, &Error{Path: cmd.Path, Err: ErrUnsupported}
}
