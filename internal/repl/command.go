package repl

import (
	"fmt"

	"github.com/atinylittleshell/tinysh/internal/repl/config"
	"github.com/atinylittleshell/tinysh/internal/repl/executor"
	"mvdan.cc/sh/v3/shell"
)

// buildCommand turns an input line into the command to execute.
//
// In literal mode the whole line is the path. In fields mode the line is
// split into shell words (quotes honored, parameters expand to nothing,
// command substitution rejected) and the first word is the path, still
// without any PATH lookup.
func buildCommand(line string, mode config.ArgvMode, env []string) (executor.Command, error) {
	if mode != config.ArgvFields {
		return executor.Command{Path: line, Env: env}, nil
	}

	fields, err := shell.Fields(line, func(string) string { return "" })
	if err != nil {
		return executor.Command{}, fmt.Errorf("failed to split command line: %w", err)
	}
	if len(fields) == 0 {
		return executor.Command{Env: env}, nil
	}

	return executor.Command{Path: fields[0], Args: fields, Env: env}, nil
}
