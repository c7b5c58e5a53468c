// Package repl provides the command loop of tinysh: write a prompt, read one
// line, run that line as a new process image, wait for it, repeat.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/atinylittleshell/tinysh/internal/history"
	"github.com/atinylittleshell/tinysh/internal/repl/config"
	"github.com/atinylittleshell/tinysh/internal/repl/executor"
	"go.uber.org/zap"
)

// Options configures a REPL.
type Options struct {
	// Config defaults to config.DefaultConfig().
	Config *config.Config

	// HistoryPath is the history database. Empty disables history, as does
	// Config.History being false.
	HistoryPath string

	// Logger is optional (can be nil).
	Logger *zap.Logger

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer

	// Executor defaults to a process executor inheriting the process streams.
	Executor executor.Executor
}

// REPL is the command loop. It runs at most one child at a time.
type REPL struct {
	config    *config.Config
	executor  executor.Executor
	history   *history.HistoryManager
	logger    *zap.Logger
	reader    *LineReader
	stdout    io.Writer
	directory string
}

// NewREPL creates a new REPL.
func NewREPL(opts Options) (*REPL, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	exec := opts.Executor
	if exec == nil {
		exec = executor.NewProcessExecutor(executor.Options{})
	}

	directory, err := os.Getwd()
	if err != nil {
		logger.Warn("failed to determine working directory", zap.Error(err))
	}

	r := &REPL{
		config:    cfg,
		executor:  exec,
		logger:    logger,
		reader:    NewLineReader(stdin, DefaultLineCapacity),
		stdout:    stdout,
		directory: directory,
	}

	if cfg.History && opts.HistoryPath != "" {
		historyManager, err := history.NewHistoryManager(opts.HistoryPath)
		if err != nil {
			// History is an extra; the loop runs without it.
			logger.Warn("failed to open history, continuing without it",
				zap.String("path", opts.HistoryPath), zap.Error(err))
		} else {
			r.history = historyManager
		}
	}

	return r, nil
}

// Config returns the active configuration.
func (r *REPL) Config() *config.Config {
	return r.config
}

// History returns the history manager, or nil when history is disabled.
func (r *REPL) History() *history.HistoryManager {
	return r.history
}

// Run loops until input ends, reading fails, or ctx is cancelled. End of
// input is a clean exit and returns nil. Cancellation is observed between
// commands only.
func (r *REPL) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.prompt()

		line, err := r.reader.ReadLine()
		if errors.Is(err, ErrLineTooLong) {
			r.logger.Warn("discarded input line longer than command buffer",
				zap.Int("capacity", r.reader.Capacity()))
			continue
		}
		if errors.Is(err, io.EOF) {
			r.logger.Debug("end of input")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}

		r.execute(ctx, line)
	}
}

func (r *REPL) prompt() {
	if _, err := io.WriteString(r.stdout, r.config.Prompt); err != nil {
		r.logger.Debug("failed to write prompt", zap.Error(err))
	}
}

// execute runs one line to completion. Failures are logged, never shown.
func (r *REPL) execute(ctx context.Context, line string) {
	cmd, err := buildCommand(line, r.config.Argv, r.config.Env)
	if err != nil {
		r.logger.Info("rejected command line", zap.String("line", line), zap.Error(err))
		return
	}

	entry := r.startHistory(line)

	result, err := r.executor.Execute(ctx, cmd)
	if err != nil {
		r.logger.Info("command failed to start", zap.String("path", cmd.Path), zap.Error(err))
		return
	}

	exitCode := exitStatus(result)
	r.logger.Debug("command finished",
		zap.String("path", cmd.Path),
		zap.Int("pid", result.Pid),
		zap.Int("exit_code", exitCode),
		zap.Bool("signaled", result.Signaled),
		zap.Duration("duration", result.Duration),
	)

	r.finishHistory(entry, exitCode)
}

func (r *REPL) startHistory(line string) *history.HistoryEntry {
	if r.history == nil {
		return nil
	}
	entry, err := r.history.StartCommand(line, r.directory)
	if err != nil {
		r.logger.Warn("failed to record command in history", zap.Error(err))
		return nil
	}
	return entry
}

func (r *REPL) finishHistory(entry *history.HistoryEntry, exitCode int) {
	if r.history == nil || entry == nil {
		return
	}
	if _, err := r.history.FinishCommand(entry, exitCode); err != nil {
		r.logger.Warn("failed to record exit code in history", zap.Error(err))
	}
}

// exitStatus maps a signaled child to 128+signal, as POSIX shells report it.
func exitStatus(result *executor.Result) int {
	if sig, ok := result.Signal.(syscall.Signal); ok && result.Signaled {
		return 128 + int(sig)
	}
	return result.ExitCode
}

// Close releases the history database.
func (r *REPL) Close() error {
	if r.history != nil {
		return r.history.Close()
	}
	return nil
}
