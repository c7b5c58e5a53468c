//go:build !windows

package executor

import (
	"context"
	"errors"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// ProcessExecutor creates children with fork+exec and reaps them with wait4.
type ProcessExecutor struct {
	opts Options
}

var _ Executor = (*ProcessExecutor)(nil)

// NewProcessExecutor creates an executor that inherits the given streams.
func NewProcessExecutor(opts Options) *ProcessExecutor {
	return &ProcessExecutor{opts: opts}
}

// Execute starts cmd and blocks until it terminates. The context is only
// consulted before the child is created; a running child is never
// interrupted.
func (e *ProcessExecutor) Execute(ctx context.Context, cmd Command) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cmd.Path == "" {
		return nil, &Error{Path: cmd.Path, Err: ErrEmptyPath}
	}

	files := e.opts.files()
	fds := make([]uintptr, len(files))
	for i, f := range files {
		fds[i] = f.Fd()
	}

	env := cmd.Env
	if env == nil {
		env = []string{}
	}

	started := time.Now()

	// ForkExec reports an image replacement failure in the child back to
	// us and reaps that child itself, so a failed exec leaves nothing to wait for.
	pid, err := syscall.ForkExec(cmd.Path, cmd.Argv(), &syscall.ProcAttr{
		Dir:   e.opts.Dir,
		Env:   env,
		Files: fds,
	})
	if err != nil {
		return nil, &Error{Path: cmd.Path, Err: err}
	}

	status, err := waitExited(pid)
	if err != nil {
		return nil, &Error{Path: cmd.Path, Err: err}
	}

	result := &Result{
		Pid:      pid,
		ExitCode: status.ExitStatus(),
		Duration: time.Since(started),
	}
	if status.Signaled() {
		result.Signaled = true
		result.Signal = status.Signal()
	}

	return result, nil
}

// waitExited blocks until pid terminates.
func waitExited(pid int) (unix.WaitStatus, error) {
	var status unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &status, 0, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return status, err
	}
}
