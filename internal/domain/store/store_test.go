package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	assert.Empty(t, s.DefaultProgram())
	assert.Empty(t, s.Get("retro-clock"))
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Update("retro-clock", map[string]interface{}{
		"brightness":  50,
		"color_theme": "dark_green",
	}))
	require.NoError(t, s.SetDefaultProgram("retro-clock"))

	// Reopen and verify the full document survived the rewrite.
	reopened, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, "retro-clock", reopened.DefaultProgram())
	cfg := reopened.Get("retro-clock")
	assert.Equal(t, "dark_green", cfg["color_theme"])
	assert.EqualValues(t, 50, cfg["brightness"])
}

func TestUpdateMerges(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	require.NoError(t, s.Update("p", map[string]interface{}{"a": 1, "b": 2}))
	require.NoError(t, s.Update("p", map[string]interface{}{"b": 3}))

	cfg := s.Get("p")
	assert.EqualValues(t, 1, cfg["a"])
	assert.EqualValues(t, 3, cfg["b"])
}

func TestGetReturnsCopy(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	require.NoError(t, s.Update("p", map[string]interface{}{"a": 1}))
	cfg := s.Get("p")
	cfg["a"] = 99

	assert.EqualValues(t, 1, s.Get("p")["a"])
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	s, err := Open(path)
	require.NoError(t, err)

	// A directory squatting on the store path makes the rewrite fail.
	require.NoError(t, os.Mkdir(path, 0o755))

	err = s.Update("p", map[string]interface{}{"a": 1})
	require.Error(t, err)

	// Attempted change still visible in memory.
	assert.EqualValues(t, 1, s.Get("p")["a"])
}

func TestToleratesUnknownKeysInStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "default_project": "retro-clock",
  "projects": {
    "retro-clock": {"brightness": 80, "future_key": "kept"}
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "kept", s.Get("retro-clock")["future_key"])
}
