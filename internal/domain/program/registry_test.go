package program

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRegistry(t *testing.T) {
	r := Builtin()

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "retro-clock", list[0].ID)
	assert.Equal(t, "simple-clock", list[1].ID)
	assert.Equal(t, "weather-display", list[2].ID)

	d, ok := r.Get("retro-clock")
	require.True(t, ok)
	assert.True(t, d.LiveControl)

	_, ok = r.Get("nope")
	assert.False(t, ok)

	names := r.Names()
	assert.Equal(t, "Weather Display", names["weather-display"])
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(&Descriptor{Name: "no id", Command: "x"}))
	assert.Error(t, r.Register(&Descriptor{ID: "x", Name: "no command"}))

	require.NoError(t, r.Register(&Descriptor{ID: "x", Name: "X", Command: "x"}))
	assert.Error(t, r.Register(&Descriptor{ID: "x", Name: "dup", Command: "x"}))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "programs.yaml")
	content := `
programs:
  - id: retro-clock
    name: Retro Clock
    command: /opt/matrixd/bin/retro-clock
    live_control: true
    schema:
      - name: brightness
        flag: led-brightness
        type: int
        default: 60
      - name: color_theme
        flag: color-theme
        type: string
        default: light_blue
  - id: marquee
    name: Marquee
    command: /opt/matrixd/bin/marquee
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := LoadFile(path)
	require.NoError(t, err)

	d, ok := r.Get("retro-clock")
	require.True(t, ok)
	assert.Equal(t, "/opt/matrixd/bin/retro-clock", d.Command)
	assert.Equal(t, uint64(60), toUint64(d.Defaults()["brightness"]))

	_, ok = r.Get("marquee")
	assert.True(t, ok)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("programs: []\n"), 0o644))
	_, err = LoadFile(empty)
	assert.Error(t, err)
}

// YAML decoders differ in the concrete integer type they produce; compare
// through uint64 to stay agnostic.
func toUint64(v interface{}) uint64 {
	switch n := v.(type) {
	case int:
		return uint64(n)
	case int64:
		return uint64(n)
	case uint64:
		return n
	case float64:
		return uint64(n)
	default:
		return 0
	}
}
