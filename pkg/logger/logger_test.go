package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsUnknownLevelAndFormat(t *testing.T) {
	_, err := New(Config{Level: "loud", Format: "json"})
	assert.Error(t, err)

	_, err = New(Config{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNew_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "skytrack.log")

	log, err := New(Config{Level: "info", Format: "json", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	log.Named("test").Info("hello", String("view", "aircraft"))
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"view":"aircraft"`)
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "abcd...", KeyPrefix("abcdef123"))
	assert.Equal(t, "***", KeyPrefix("abc"))
	assert.Equal(t, "", KeyPrefix(""))
}
