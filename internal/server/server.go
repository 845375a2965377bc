package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
	"github.com/Alikh-collab/TAZA-back/internal/config"
	"github.com/Alikh-collab/TAZA-back/internal/handlers"
	"github.com/Alikh-collab/TAZA-back/internal/middleware"
	"github.com/Alikh-collab/TAZA-back/internal/storage"
)

type HTTPServer struct {
	engine *gin.Engine
	server *http.Server
	log    zerolog.Logger
	cfg    *config.AppConfig
}

// NewEngine builds the router with the global middleware chain, the /api
// routes and, for the local driver, the static /uploads tree.
func NewEngine(cfg *config.AppConfig, log zerolog.Logger, handlerSet handlers.HandlerSet, files storage.FileStore) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.MaxMultipartMemory = 8 << 20

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.SecurityHeaders(),
		middleware.BodyLimit(cfg.Upload.RequestLimit()),
		middleware.Errors(log, cfg.IsDevelopment()),
	)

	if local, ok := files.(*storage.LocalStore); ok {
		engine.Static(local.Prefix(), local.Root())
	}

	handlerSet.RegisterRoutes(engine.Group("/api"))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apperr.NewResponse("not_found", "route not found"))
	})

	return engine
}

func corsHandler(origins []string, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(next)
}

func NewHTTPServer(cfg *config.AppConfig, log zerolog.Logger, handlerSet handlers.HandlerSet, files storage.FileStore) *HTTPServer {
	engine := NewEngine(cfg, log, handlerSet, files)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      corsHandler(cfg.AllowCORSOrigins, engine),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &HTTPServer{
		engine: engine,
		server: srv,
		log:    log,
		cfg:    cfg,
	}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.log.Info().
		Str("addr", s.server.Addr).
		Bool("tls", s.cfg.TLS.Enabled).
		Str("environment", s.cfg.Environment).
		Msg("http server starting")

	var err error
	if s.cfg.TLS.Enabled {
		err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
	} else {
		err = s.server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}
