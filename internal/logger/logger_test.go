package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_FileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "server.log")

	require.NoError(t, Init(path))
	defer Close()

	LogInfo("room %s created", "abc123")
	LogError("boom: %v", assert.AnError)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] room abc123 created")
	assert.Contains(t, string(data), "[ERROR] boom")
	assert.Equal(t, path, GetLogPath())
}

func TestInit_Stdout(t *testing.T) {
	require.NoError(t, Init(""))
	assert.NotPanics(t, func() { LogInfo("stdout logging") })
}
