package server

import (
	"context"
	nethttp "net/http"
	"time"

	apihttp "github.com/GriffinCanCode/BrowserOS/backend/internal/api/http"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/engine/memory"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/storage"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/ws"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg     *config.Config
	logger  *logging.Logger
	manager *session.Manager
	httpSrv *nethttp.Server
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}

	metrics := monitoring.NewMetrics()

	eng := memory.NewEngine()
	manager := session.NewManager(eng).WithMetrics(metrics)
	if url := cfg.Sessions.DefaultURL; url != "" {
		manager.WithDefaultSession(func() *session.Session {
			return session.NewSession(url)
		})
	}

	store, err := storage.NewStore(cfg.Sessions.SnapshotDir)
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot store")
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	tracer := tracing.New("browser-backend", logger.Component("tracing").Logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(manager, store, eng, metrics)
	wsHandler := ws.NewHandler(manager, logger.Component("ws"), metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Session management
	router.GET("/sessions", handlers.ListSessions)
	router.POST("/sessions", handlers.AddSession)
	router.DELETE("/sessions", handlers.RemoveSessions)
	router.GET("/sessions/selected", handlers.SelectedSession)
	router.DELETE("/sessions/:id", handlers.RemoveSession)
	router.POST("/sessions/:id/select", handlers.SelectSession)
	router.POST("/sessions/:id/engine", handlers.EnsureEngineSession)

	// Snapshots
	router.POST("/snapshots", handlers.SaveSnapshot)
	router.GET("/snapshots", handlers.ListSnapshots)
	router.POST("/snapshots/:id/restore", handlers.RestoreSnapshot)
	router.DELETE("/snapshots/:id", handlers.DeleteSnapshot)

	// System
	router.POST("/system/low-memory", handlers.LowMemory)

	// WebSocket event stream
	router.GET("/stream", wsHandler.HandleConnection)

	return &Server{
		cfg:    cfg,
		logger: logger,
		manager: manager,
		httpSrv: &nethttp.Server{
			Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
			Handler: router,
		},
	}, nil
}

// Run starts serving and blocks until the listener fails or closes.
func (s *Server) Run() error {
	s.logger.Info("Starting browser session service",
		zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases every engine handle
// so nothing dangles across process exit.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.httpSrv.Shutdown(shutdownCtx)
	s.manager.RemoveAll()
	_ = s.logger.Sync()
	return err
}
