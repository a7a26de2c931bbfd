package clock

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledhaus/matrixd/internal/infrastructure/logging"
	"github.com/ledhaus/matrixd/internal/infrastructure/monitoring"
	"github.com/ledhaus/matrixd/internal/render"
	"github.com/ledhaus/matrixd/internal/shared/types"
)

func controlFixture(t *testing.T) (*ControlServer, *Engine) {
	t.Helper()
	buffer := render.NewBuffer(GridWidth, GridHeight, &render.MemorySink{})
	engine := NewEngine(buffer, Options{
		Theme:         "orange",
		AnimationMode: ModeScrollDown,
		Brightness:    80,
		Location:      time.UTC,
	}, logging.NewDevelopment())
	engine.WithClock(func() time.Time {
		return time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	}, func(time.Duration) {})
	engine.Tick()

	return NewControlServer(engine, monitoring.NewMetrics(), 0), engine
}

func controlDo(t *testing.T, c *ControlServer, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	c.srv.Handler.ServeHTTP(w, req)
	return w
}

func TestControlTheme(t *testing.T) {
	c, engine := controlFixture(t)

	w := controlDo(t, c, http.MethodPost, "/control/theme", types.ThemeRequest{Theme: "light_blue"})
	assert.Equal(t, http.StatusOK, w.Code)

	engine.Tick()
	assert.Equal(t, "light_blue", engine.Status().Theme)
}

func TestControlThemeRejectsUnknown(t *testing.T) {
	c, _ := controlFixture(t)

	w := controlDo(t, c, http.MethodPost, "/control/theme", types.ThemeRequest{Theme: "neon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestControlAnimationDefaultsToBoth(t *testing.T) {
	c, engine := controlFixture(t)

	w := controlDo(t, c, http.MethodPost, "/control/animation", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The queued trigger runs a full transition at the next tick.
	sink := &render.MemorySink{}
	engine.buffer = render.NewBuffer(GridWidth, GridHeight, sink)
	engine.Tick()
	assert.Equal(t, ScrollFrames+2, sink.Count())
}

func TestControlConfig(t *testing.T) {
	c, engine := controlFixture(t)

	w := controlDo(t, c, http.MethodPost, "/control/config",
		types.ConfigPushRequest{Config: map[string]interface{}{"brightness": 33}})
	assert.Equal(t, http.StatusOK, w.Code)

	engine.Tick()
	assert.Equal(t, 33, engine.Status().Brightness)
}

func TestControlStatus(t *testing.T) {
	c, _ := controlFixture(t)

	w := controlDo(t, c, http.MethodGet, "/control/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status types.ControlStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "retro-clock", status.Program)
	assert.Equal(t, " 3", status.Hour)
	assert.Equal(t, "30", status.Minute)
	assert.Equal(t, "orange", status.Theme)
}
