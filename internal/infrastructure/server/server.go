package server

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ledhaus/matrixd/internal/api/http"
	"github.com/ledhaus/matrixd/internal/api/middleware"
	"github.com/ledhaus/matrixd/internal/api/ws"
	"github.com/ledhaus/matrixd/internal/domain/control"
	"github.com/ledhaus/matrixd/internal/domain/program"
	"github.com/ledhaus/matrixd/internal/domain/store"
	"github.com/ledhaus/matrixd/internal/domain/supervisor"
	"github.com/ledhaus/matrixd/internal/infrastructure/config"
	"github.com/ledhaus/matrixd/internal/infrastructure/logging"
	"github.com/ledhaus/matrixd/internal/infrastructure/monitoring"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	httpSrv *stdhttp.Server
	manager *supervisor.Manager
	metrics *monitoring.Metrics
	log     *logging.Logger
	cfg     *config.Config
}

// New assembles the daemon: store, registry, launcher, supervisor, control
// channel, websocket hub, and the gin router in front of them.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	registry := program.Builtin()
	if cfg.Programs.File != "" {
		registry, err = program.LoadFile(cfg.Programs.File)
		if err != nil {
			return nil, err
		}
		log.Info("Loaded program registry", zap.String("file", cfg.Programs.File))
	}

	metrics := monitoring.NewMetrics()
	live := control.NewClient(cfg.Control.Port, time.Duration(cfg.Control.Timeout)*time.Second, log)

	manager := supervisor.NewManager(registry, st, supervisor.NewOSLauncher(), log).
		WithMetrics(metrics).
		WithLive(live).
		WithControlPort(cfg.Control.Port)

	hub := ws.NewHub(manager.Status, log)
	manager.WithEvents(hub)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := http.NewHandlers(manager, registry)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/status", handlers.Status)
		api.GET("/projects", handlers.ListProjects)
		api.POST("/projects/:id/start", handlers.StartProject)
		api.POST("/projects/:id/stop", handlers.StopProject)
		api.GET("/projects/:id/config", handlers.GetConfig)
		api.POST("/projects/:id/config", handlers.UpdateConfig)
		api.POST("/stop", handlers.Stop)
		api.POST("/default-project", handlers.SetDefault)

		api.POST("/live/theme", handlers.LiveTheme)
		api.POST("/live/animation", handlers.LiveAnimation)
		api.POST("/live/config", handlers.LiveConfig)
		api.GET("/live/status", handlers.LiveStatus)
	}

	// WebSocket event stream
	router.GET("/stream", hub.HandleConnection)

	return &Server{
		router:  router,
		manager: manager,
		metrics: metrics,
		log:     log,
		cfg:     cfg,
	}, nil
}

// Manager exposes the supervisor for signal handling in main.
func (s *Server) Manager() *supervisor.Manager {
	return s.manager
}

// Run starts the server and blocks until it stops.
func (s *Server) Run() error {
	if s.cfg.Programs.AutoStart {
		if err := s.manager.AutoStart(); err != nil {
			s.log.Warn("Auto-start failed", zap.Error(err))
		}
	}

	go s.tickUptime()

	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.httpSrv = &stdhttp.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("Starting matrixd", zap.String("addr", addr))
	err := s.httpSrv.ListenAndServe()
	if err == stdhttp.ErrServerClosed {
		return nil
	}
	return err
}

// Close stops the running display program and the HTTP listener.
func (s *Server) Close() error {
	s.manager.Shutdown()
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Close()
}

func (s *Server) tickUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for range ticker.C {
		s.metrics.TickUptime()
	}
}
