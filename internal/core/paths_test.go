package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsHonorDataDirOverride(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "state")
	t.Setenv(DataDirEnv, dataDir)
	ResetPaths()
	defer ResetPaths()

	assert.Equal(t, dataDir, DataDir())
	assert.Equal(t, filepath.Join(dataDir, "tinysh.log"), LogFile())
	assert.Equal(t, filepath.Join(dataDir, "history.db"), HistoryFile())
	assert.Equal(t, filepath.Join(dataDir, "config.yaml"), ConfigFile())

	stat, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}

func TestPathsDefaultToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(DataDirEnv, "")
	ResetPaths()
	defer ResetPaths()

	assert.Equal(t, home, HomeDir())
	assert.Equal(t, filepath.Join(home, ".tinysh"), DataDir())
}
