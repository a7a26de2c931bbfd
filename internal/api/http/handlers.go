package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledhaus/matrixd/internal/domain/program"
	"github.com/ledhaus/matrixd/internal/domain/supervisor"
	"github.com/ledhaus/matrixd/internal/shared/types"
)

// Supervisor is the slice of the supervisor the HTTP layer needs.
type Supervisor interface {
	Start(id string, overrides map[string]interface{}) (string, error)
	Stop() string
	UpdateConfig(id string, partial map[string]interface{}) (string, error)
	Config(id string) (map[string]interface{}, error)
	SetDefault(id string) (string, error)
	Status() types.SupervisorStatus

	LiveTheme(ctx context.Context, theme string) error
	LiveAnimation(ctx context.Context, target string) error
	LiveConfig(ctx context.Context, partial map[string]interface{}) error
	LiveStatus(ctx context.Context) (*types.ControlStatus, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	sup      Supervisor
	registry *program.Registry
}

// NewHandlers creates a new handler set
func NewHandlers(sup Supervisor, registry *program.Registry) *Handlers {
	return &Handlers{
		sup:      sup,
		registry: registry,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "matrixd",
		"version": "0.2.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	status := h.sup.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"running":  status.Running,
		"programs": len(h.registry.List()),
	})
}

// Status reports the supervisor slot state.
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.sup.Status())
}

// ListProjects lists registered display programs with their effective
// stored configuration.
func (h *Handlers) ListProjects(c *gin.Context) {
	descriptors := h.registry.List()
	projects := make([]gin.H, 0, len(descriptors))
	for _, d := range descriptors {
		cfg, _ := h.sup.Config(d.ID)
		projects = append(projects, gin.H{
			"id":           d.ID,
			"name":         d.Name,
			"live_control": d.LiveControl,
			"config":       cfg,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"projects":        projects,
		"default_project": h.sup.Status().DefaultProgram,
	})
}

// StartProject launches a display program, replacing whatever runs now.
// An optional JSON body supplies one-shot config overrides.
func (h *Handlers) StartProject(c *gin.Context) {
	id := c.Param("id")

	var overrides map[string]interface{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&overrides); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
	}

	msg, err := h.sup.Start(id, overrides)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "project": id})
}

// StopProject stops the named program if it is the one running.
func (h *Handlers) StopProject(c *gin.Context) {
	id := c.Param("id")

	status := h.sup.Status()
	if status.CurrentProgram == nil || *status.CurrentProgram != id {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "Project is not running",
			"project": id,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": h.sup.Stop(), "project": id})
}

// Stop stops whatever program is running.
func (h *Handlers) Stop(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": h.sup.Stop()})
}

// GetConfig returns a program's effective stored configuration.
func (h *Handlers) GetConfig(c *gin.Context) {
	id := c.Param("id")

	cfg, err := h.sup.Config(id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "project": id, "config": cfg})
}

// UpdateConfig merges a partial configuration update. If the program is
// running it is restarted with the new configuration.
func (h *Handlers) UpdateConfig(c *gin.Context) {
	id := c.Param("id")

	var partial map[string]interface{}
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	msg, err := h.sup.UpdateConfig(id, partial)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "project": id})
}

// SetDefault persists the program auto-started on boot.
func (h *Handlers) SetDefault(c *gin.Context) {
	var req struct {
		Project string `json:"project" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	msg, err := h.sup.SetDefault(req.Project)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "default_project": req.Project})
}

// LiveTheme switches the running program's color theme in place.
func (h *Handlers) LiveTheme(c *gin.Context) {
	var req types.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Theme == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "theme required"})
		return
	}

	if err := h.sup.LiveTheme(c.Request.Context(), req.Theme); err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "theme": req.Theme})
}

// LiveAnimation triggers a transition on the running program immediately.
func (h *Handlers) LiveAnimation(c *gin.Context) {
	req := types.AnimationRequest{Target: "both"}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
	}

	if err := h.sup.LiveAnimation(c.Request.Context(), req.Target); err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "target": req.Target})
}

// LiveConfig pushes a partial config update to the running program. The
// update is persisted first; when the live push fails the stored update
// stands and the response says so.
func (h *Handlers) LiveConfig(c *gin.Context) {
	var req types.ConfigPushRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Config) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "config required"})
		return
	}

	err := h.sup.LiveConfig(c.Request.Context(), req.Config)
	if errors.Is(err, supervisor.ErrLiveUnreachable) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"live":    false,
			"message": "Configuration stored; live program not reached",
		})
		return
	}
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "live": true})
}

// LiveStatus proxies the running program's loopback status.
func (h *Handlers) LiveStatus(c *gin.Context) {
	status, err := h.sup.LiveStatus(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

// statusFor maps supervisor errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, supervisor.ErrUnknownProgram):
		return http.StatusNotFound
	case errors.Is(err, supervisor.ErrLiveUnreachable):
		return http.StatusServiceUnavailable
	case errors.Is(err, supervisor.ErrLaunchFailure),
		errors.Is(err, supervisor.ErrConfigPersist):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
