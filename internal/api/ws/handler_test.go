package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledhaus/matrixd/internal/infrastructure/logging"
	"github.com/ledhaus/matrixd/internal/shared/types"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", hub.HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Drain the welcome message.
	var welcome map[string]interface{}
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "system", welcome["type"])
	return conn
}

func TestPingPong(t *testing.T) {
	hub := NewHub(func() types.SupervisorStatus { return types.SupervisorStatus{} }, logging.NewDevelopment())
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))

	var reply map[string]interface{}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "pong", reply["type"])
}

func TestStatusQuery(t *testing.T) {
	name := "retro-clock"
	hub := NewHub(func() types.SupervisorStatus {
		return types.SupervisorStatus{Running: true, CurrentProgram: &name}
	}, logging.NewDevelopment())
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "status"}))

	var reply struct {
		Type   string                 `json:"type"`
		Status types.SupervisorStatus `json:"status"`
	}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "status", reply.Type)
	assert.True(t, reply.Status.Running)
	require.NotNil(t, reply.Status.CurrentProgram)
	assert.Equal(t, "retro-clock", *reply.Status.CurrentProgram)
}

func TestPublishBroadcasts(t *testing.T) {
	hub := NewHub(func() types.SupervisorStatus { return types.SupervisorStatus{} }, logging.NewDevelopment())
	conn := dialHub(t, hub)

	// Registration races the dial returning; wait for the hub to see it.
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(types.Event{Type: types.EventProgramStarted, Program: "retro-clock"})

	var reply struct {
		Type  string      `json:"type"`
		Event types.Event `json:"event"`
	}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "event", reply.Type)
	assert.Equal(t, types.EventProgramStarted, reply.Event.Type)
	assert.Equal(t, "retro-clock", reply.Event.Program)
}
