package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/hafly/toolkit/internal/api/http"
	"github.com/hafly/toolkit/internal/api/middleware"
	"github.com/hafly/toolkit/internal/hostfs"
	"github.com/hafly/toolkit/internal/infrastructure/config"
	"github.com/hafly/toolkit/internal/infrastructure/logging"
	"github.com/hafly/toolkit/internal/infrastructure/monitoring"
	"github.com/hafly/toolkit/internal/infrastructure/tracing"
	"github.com/hafly/toolkit/internal/pathpolicy"
	"github.com/hafly/toolkit/internal/providers/filesystem"
	httpProvider "github.com/hafly/toolkit/internal/providers/http"
	httpclient "github.com/hafly/toolkit/internal/providers/http/client"
	"github.com/hafly/toolkit/internal/service"
	"github.com/hafly/toolkit/internal/treeops"
	"github.com/hafly/toolkit/internal/ws"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	registry *service.Registry
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
}

// NewServer builds every component from cfg
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newServer(cfg, logger)
}

func newServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing toolkit server",
		zap.String("addr", cfg.Addr()),
		zap.String("fs_root", cfg.Filesystem.Root),
		zap.String("archive_naming", cfg.Filesystem.ArchiveNaming),
	)

	metrics := monitoring.NewMetrics()
	registry := service.NewRegistry(logger.Named("registry").Logger, metrics)
	if err := registerProviders(registry, cfg, logger, metrics); err != nil {
		return nil, err
	}
	stats := registry.Stats()
	logger.Info("Registered service providers",
		zap.Any("services", stats["total_services"]),
		zap.Any("tools", stats["total_tools"]),
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	tracer := tracing.New(logger.Named("access").Logger)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	router.Use(middleware.CORS(corsCfg))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	apihttp.NewHandlers(registry, logger.Named("api").Logger).Register(router)
	router.GET("/stream", ws.NewHandler(registry, logger.Named("ws").Logger, nil).HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		http:     &http.Server{Addr: cfg.Addr(), Handler: router},
		registry: registry,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		tracer:   tracer,
	}, nil
}

func registerProviders(registry *service.Registry, cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) error {
	policy := pathpolicy.Policy{
		Root:           cfg.Filesystem.Root,
		AllowTraversal: cfg.Filesystem.AllowTraversal,
		Deny:           cfg.Filesystem.Deny,
	}
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("invalid filesystem policy: %w", err)
	}
	naming, err := treeops.ParseNaming(cfg.Filesystem.ArchiveNaming)
	if err != nil {
		return fmt.Errorf("invalid archive naming: %w", err)
	}

	host := hostfs.NewOS()
	fsLogger := logger.Named("filesystem").Logger
	engine := treeops.New(host, treeops.WithNaming(naming), treeops.WithLogger(fsLogger))
	fsProvider := filesystem.NewProvider(&filesystem.FilesystemOps{
		Engine:  engine,
		Host:    host,
		Policy:  policy,
		Logger:  fsLogger,
		Metrics: metrics,
	})
	if err := registry.Register(fsProvider); err != nil {
		return fmt.Errorf("failed to register filesystem provider: %w", err)
	}

	httpLogger := logger.Named("http").Logger
	client, err := httpclient.NewClient(httpclient.Settings{
		Timeout:   cfg.HTTP.Timeout.Std(),
		UserAgent: cfg.HTTP.UserAgent,
		VerifyTLS: cfg.HTTP.VerifyTLS,
		ProxyURL:  cfg.HTTP.Proxy,
		RetryMax:  cfg.HTTP.RetryMax,
		RateLimit: cfg.HTTP.RateLimit,
	}, httpclient.WithLogger(httpLogger), httpclient.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("failed to create http client: %w", err)
	}
	if !cfg.HTTP.VerifyTLS {
		logger.Warn("Outbound TLS certificate verification disabled")
	}
	htProvider := httpProvider.NewProvider(httpProvider.Options{
		Client:          client,
		Host:            host,
		Policy:          policy,
		DownloadTimeout: cfg.HTTP.DownloadTimeout.Std(),
		Logger:          httpLogger,
	})
	if err := registry.Register(htProvider); err != nil {
		return fmt.Errorf("failed to register http provider: %w", err)
	}
	return nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry returns the service registry
func (s *Server) Registry() *service.Registry {
	return s.registry
}

// Run listens on the configured address until Shutdown
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then flushes logs
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Graceful shutdown incomplete", zap.Error(err))
	}
	s.tracer.Close()
	_ = s.logger.Sync()
	return err
}
