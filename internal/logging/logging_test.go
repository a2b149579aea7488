package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "commitwiz.log")
	l, closeFn, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	l.Debug().Str("path", "src/a.go").Msg("diff loaded")
	l.Trace().Msg("dropped")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "src/a.go", entry["path"])
	assert.Equal(t, "diff loaded", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := New(Options{Level: "info", Console: &buf})
	require.NoError(t, err)

	l.Info().Msg("committed group")
	l.Debug().Msg("hidden")
	assert.Contains(t, buf.String(), "committed group")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewDiscardsByDefault(t *testing.T) {
	l, _, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestNewBadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
