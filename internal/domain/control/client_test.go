package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledhaus/matrixd/internal/infrastructure/logging"
	"github.com/ledhaus/matrixd/internal/shared/types"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	c := NewClient(port, time.Second, logging.NewDevelopment())
	// httptest binds to 127.0.0.1, so the loopback base URL lines up.
	return c
}

func TestSetTheme(t *testing.T) {
	var got types.ThemeRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/control/theme", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.ControlResponse{Success: true})
	})

	c := testClient(t, handler)
	require.NoError(t, c.SetTheme(context.Background(), "dark_green"))
	assert.Equal(t, "dark_green", got.Theme)
}

func TestTriggerAnimation(t *testing.T) {
	var got types.AnimationRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/control/animation", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.ControlResponse{Success: true})
	})

	c := testClient(t, handler)
	require.NoError(t, c.TriggerAnimation(context.Background(), "both"))
	assert.Equal(t, "both", got.Target)
}

func TestPushConfig(t *testing.T) {
	var got types.ConfigPushRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/control/config", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.ControlResponse{Success: true})
	})

	c := testClient(t, handler)
	require.NoError(t, c.PushConfig(context.Background(), map[string]interface{}{"brightness": 40}))
	assert.EqualValues(t, 40, got.Config["brightness"])
}

func TestStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/control/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.ControlStatus{
			Program: "retro-clock",
			Theme:   "orange",
			Hour:    " 9",
			Minute:  "05",
		})
	})

	c := testClient(t, handler)
	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "retro-clock", status.Program)
	assert.Equal(t, " 9", status.Hour)
	assert.Equal(t, "05", status.Minute)
}

func TestPostRejectedReply(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.ControlResponse{Success: false, Message: "unknown theme"})
	})

	c := testClient(t, handler)
	err := c.SetTheme(context.Background(), "neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme")
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	c := testClient(t, handler)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		assert.Error(t, c.SetTheme(ctx, "orange"))
	}
	seen := calls.Load()

	// Open breaker fails fast without hitting the server again.
	assert.Error(t, c.SetTheme(ctx, "orange"))
	assert.Equal(t, seen, calls.Load())
}
