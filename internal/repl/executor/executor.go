// Package executor starts a single child process image and waits for it to
// terminate. It is the fork/exec/reap half of the command loop.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	// ErrEmptyPath is returned when a command has no path to execute.
	ErrEmptyPath = errors.New("empty command path")

	// ErrUnsupported is returned on platforms without fork/exec semantics.
	ErrUnsupported = errors.New("process launching is not supported on this platform")
)

// Command describes the program image to run.
type Command struct {
	// Path is used verbatim: no PATH lookup, no quoting, no expansion.
	Path string

	// Args is the argument vector. When empty, Argv falls back to the
	// one-element list containing Path.
	Args []string

	// Env is the complete child environment. Nil means empty.
	Env []string
}

// Argv returns the argument vector handed to the new image.
func (c Command) Argv() []string {
	if len(c.Args) == 0 {
		return []string{c.Path}
	}
	return c.Args
}

// Result describes how a child terminated.
type Result struct {
	Pid      int
	ExitCode int
	Signaled bool
	Signal   os.Signal
	Duration time.Duration
}

// Error reports a child that could not be created or whose image could not
// be replaced.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("exec %q: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Executor runs one command to completion.
type Executor interface {
	Execute(ctx context.Context, cmd Command) (*Result, error)
}

// Options configures a process executor.
type Options struct {
	// Stdin, Stdout and Stderr are inherited by the child. Nil selects the
	// corresponding stream of the current process.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Dir is the child's working directory. Empty means the current one.
	Dir string
}

func (o Options) files() []*os.File {
	return []*os.File{
		orDefault(o.Stdin, os.Stdin),
		orDefault(o.Stdout, os.Stdout),
		orDefault(o.Stderr, os.Stderr),
	}
}

func orDefault(f, fallback *os.File) *os.File {
	if f == nil {
		return fallback
	}
	return f
}
