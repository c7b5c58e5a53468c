package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/atinylittleshell/tinysh/internal/core"
	"github.com/atinylittleshell/tinysh/internal/history"
	"github.com/atinylittleshell/tinysh/internal/repl"
	"github.com/atinylittleshell/tinysh/internal/repl/config"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var BUILD_VERSION = "dev"

const helpText = `tinysh - a minimal command loop

USAGE:
  tinysh [options]

Each input line is run as a program path with no arguments and an empty
environment. The next prompt appears once the program exits. End of input
(Ctrl+D) leaves the loop.

OPTIONS:
`

var errUnexpectedArgs = errors.New("unexpected arguments")

type cliOptions struct {
	configPath   string
	prompt       string
	logLevel     string
	noHistory    bool
	historyLimit int
	showHistory  bool
	help         bool
	version      bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns the process exit status.
func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("tinysh", flag.ContinueOnError)
	flags.SetOutput(stderr)
	opts, err := parseFlags(flags, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if errors.Is(err, errUnexpectedArgs) {
			fmt.Fprintf(stderr, "tinysh: %v\n", err)
		}
		return 2
	}

	if opts.version {
		fmt.Fprintln(stdout, BUILD_VERSION)
		return 0
	}

	if opts.help {
		fmt.Fprint(stdout, helpText)
		flags.SetOutput(stdout)
		flags.PrintDefaults()
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "tinysh: %v\n", err)
		return 1
	}

	if opts.showHistory {
		if err := showHistory(stdout, core.HistoryFile(), opts.historyLimit); err != nil {
			fmt.Fprintf(stderr, "tinysh: %v\n", err)
			return 1
		}
		return 0
	}

	logger, err := initializeLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "tinysh: failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync() // Flush any buffered log entries

	logger.Info("-------- new tinysh session --------",
		zap.Strings("args", args),
		zap.Bool("interactive", term.IsTerminal(int(stdin.Fd()))),
	)

	historyPath := ""
	if cfg.History {
		historyPath = core.HistoryFile()
	}

	r, err := repl.NewREPL(repl.Options{
		Config:      cfg,
		HistoryPath: historyPath,
		Logger:      logger,
		Stdin:       stdin,
		Stdout:      stdout,
	})
	if err != nil {
		logger.Error("failed to initialize REPL", zap.Error(err))
		return 1
	}
	defer r.Close()

	if err := r.Run(ctx); err != nil {
		logger.Error("unhandled error", zap.Error(err))
		return 1
	}

	return 0
}

func parseFlags(flags *flag.FlagSet, args []string) (*cliOptions, error) {
	opts := &cliOptions{}

	flags.StringVarP(&opts.configPath, "config", "c", "", "path to the config file (default ~/.tinysh/config.yaml)")
	flags.StringVar(&opts.prompt, "prompt", "", "prompt written before each read")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.noHistory, "no-history", false, "do not record commands in the history database")
	flags.IntVar(&opts.historyLimit, "history", 20, "print the N most recent history entries and exit (--history=N)")
	flags.Lookup("history").NoOptDefVal = "20"
	flags.BoolVarP(&opts.help, "help", "h", false, "display help information")
	flags.BoolVar(&opts.version, "version", false, "display build version")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	opts.showHistory = flags.Changed("history")

	if flags.NArg() > 0 {
		return nil, fmt.Errorf("%w: %s", errUnexpectedArgs, strings.Join(flags.Args(), " "))
	}

	return opts, nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *cliOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = core.ConfigFile()
	}

	cfg, err := config.NewLoader(nil).LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	if opts.prompt != "" {
		cfg.Prompt = opts.prompt
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.noHistory {
		cfg.History = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	logLevel := cfg.Level()
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	// Logs never go to the terminal: stdout carries only the prompt.
	// Use `tail -f ~/.tinysh/tinysh.log` to follow them.
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}
	loggerConfig.ErrorOutputPaths = []string{
		core.LogFile(),
	}

	return loggerConfig.Build()
}

func showHistory(w io.Writer, historyPath string, limit int) error {
	if limit <= 0 {
		return fmt.Errorf("--history needs a positive count, got %d", limit)
	}

	historyManager, err := history.NewHistoryManager(historyPath)
	if err != nil {
		return err
	}
	defer historyManager.Close()

	entries, err := historyManager.GetRecentEntries("", limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	lines := lo.Map(entries, func(entry history.HistoryEntry, _ int) string {
		return formatHistoryEntry(entry)
	})
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}

	return nil
}

func formatHistoryEntry(entry history.HistoryEntry) string {
	exitCode := "-"
	if entry.ExitCode.Valid {
		exitCode = strconv.Itoa(int(entry.ExitCode.Int32))
	}
	return fmt.Sprintf("%5d  %-16s  %3s  %s", entry.ID, humanize.Time(entry.CreatedAt), exitCode, entry.Command)
}
