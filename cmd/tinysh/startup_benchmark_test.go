package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atinylittleshell/tinysh/internal/core"
	"github.com/atinylittleshell/tinysh/internal/repl"
)

// BenchmarkStartupInitialization measures the cost of preparing config,
// logger, history and the loop for a session without reading any input.
func BenchmarkStartupInitialization(b *testing.B) {
	b.ReportAllocs()

	homeDir := filepath.Join(b.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		b.Fatalf("failed to create temp home: %v", err)
	}

	b.Setenv("HOME", homeDir)
	b.Setenv(core.DataDirEnv, "")
	b.Cleanup(core.ResetPaths)

	for i := 0; i < b.N; i++ {
		core.ResetPaths()

		cfg, err := loadConfig(&cliOptions{})
		if err != nil {
			b.Fatalf("failed to load config: %v", err)
		}

		logger, err := initializeLogger(cfg)
		if err != nil {
			b.Fatalf("failed to initialize logger: %v", err)
		}

		r, err := repl.NewREPL(repl.Options{
			Config:      cfg,
			HistoryPath: core.HistoryFile(),
			Logger:      logger,
			Stdin:       strings.NewReader(""),
			Stdout:      &strings.Builder{},
		})
		if err != nil {
			b.Fatalf("failed to initialize REPL: %v", err)
		}
		_ = r.Close()
		_ = logger.Sync()
	}
}
