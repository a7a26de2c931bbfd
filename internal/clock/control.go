package clock

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledhaus/matrixd/internal/infrastructure/monitoring"
	"github.com/ledhaus/matrixd/internal/shared/types"
)

// ControlServer is the loopback HTTP surface the supervisor's live channel
// talks to. It only ever binds 127.0.0.1.
type ControlServer struct {
	engine  *Engine
	srv     *http.Server
	metrics *monitoring.Metrics
}

// NewControlServer builds the control server for an engine.
func NewControlServer(engine *Engine, metrics *monitoring.Metrics, port int) *ControlServer {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	c := &ControlServer{
		engine:  engine,
		metrics: metrics,
	}

	router.POST("/control/theme", c.handleTheme)
	router.POST("/control/animation", c.handleAnimation)
	router.POST("/control/config", c.handleConfig)
	router.GET("/control/status", c.handleStatus)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	c.srv = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return c
}

// ListenAndServe blocks serving control requests.
func (c *ControlServer) ListenAndServe() error {
	err := c.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the control server.
func (c *ControlServer) Shutdown(ctx context.Context) error {
	return c.srv.Shutdown(ctx)
}

func (c *ControlServer) handleTheme(g *gin.Context) {
	var req types.ThemeRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Theme == "" {
		g.JSON(http.StatusBadRequest, types.ControlResponse{Message: "theme required"})
		return
	}
	if err := c.engine.SetTheme(req.Theme); err != nil {
		g.JSON(http.StatusBadRequest, types.ControlResponse{Message: err.Error()})
		return
	}
	g.JSON(http.StatusOK, types.ControlResponse{Success: true})
}

func (c *ControlServer) handleAnimation(g *gin.Context) {
	req := types.AnimationRequest{Target: TargetBoth}
	if g.Request.ContentLength > 0 {
		if err := g.ShouldBindJSON(&req); err != nil {
			g.JSON(http.StatusBadRequest, types.ControlResponse{Message: err.Error()})
			return
		}
	}
	if err := c.engine.TriggerAnimation(req.Target); err != nil {
		g.JSON(http.StatusBadRequest, types.ControlResponse{Message: err.Error()})
		return
	}
	g.JSON(http.StatusOK, types.ControlResponse{Success: true})
}

func (c *ControlServer) handleConfig(g *gin.Context) {
	var req types.ConfigPushRequest
	if err := g.ShouldBindJSON(&req); err != nil || len(req.Config) == 0 {
		g.JSON(http.StatusBadRequest, types.ControlResponse{Message: "config required"})
		return
	}
	c.engine.PushConfig(req.Config)
	g.JSON(http.StatusOK, types.ControlResponse{Success: true})
}

func (c *ControlServer) handleStatus(g *gin.Context) {
	g.JSON(http.StatusOK, c.engine.Status())
}
