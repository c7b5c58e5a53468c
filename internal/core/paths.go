package core

import (
	"os"
	"path/filepath"
)

// DataDirEnv overrides the data directory (default ~/.tinysh).
const DataDirEnv = "TINYSH_HOME"

type Paths struct {
	HomeDir     string
	DataDir     string
	LogFile     string
	HistoryFile string
	ConfigFile  string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		dataDir := os.Getenv(DataDirEnv)
		if dataDir == "" {
			dataDir = filepath.Join(homeDir, ".tinysh")
		}

		defaultPaths = &Paths{
			HomeDir:     homeDir,
			DataDir:     dataDir,
			LogFile:     filepath.Join(dataDir, "tinysh.log"),
			HistoryFile: filepath.Join(dataDir, "history.db"),
			ConfigFile:  filepath.Join(dataDir, "config.yaml"),
		}

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func HistoryFile() string {
	ensureDefaultPaths()
	return defaultPaths.HistoryFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
