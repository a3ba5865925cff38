// Package server exposes document upload and question answering over HTTP.
package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docqa/internal/logger"
	"docqa/internal/pipeline"
	"docqa/internal/session"
)

const (
	CookieName      = "docqa_client_id"
	CookieMaxAge    = 24 * 60 * 60
	DefaultMaxBytes = 32 << 20
)

// PipelineBuilder builds a pipeline from every supported file in a folder.
type PipelineBuilder interface {
	Build(ctx context.Context, folder string) (*pipeline.Pipeline, error)
}

// FormatChecker reports which uploads can be indexed.
type FormatChecker interface {
	Supports(name string) bool
	Extensions() []string
}

type Config struct {
	// UploadDir holds the per-upload temp directories. Empty means os.TempDir.
	UploadDir      string
	MaxUploadBytes int64
	SecureCookie   bool
}

type Server struct {
	builder  PipelineBuilder
	formats  FormatChecker
	sessions *session.Registry
	cfg      Config
	logger   *zap.Logger
}

func New(builder PipelineBuilder, formats FormatChecker, sessions *session.Registry, cfg Config, log *zap.Logger) *Server {
	if cfg.UploadDir == "" {
		cfg.UploadDir = os.TempDir()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxBytes
	}
	if sessions == nil {
		sessions = session.NewRegistry()
	}
	return &Server{
		builder:  builder,
		formats:  formats,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger.OrNop(log),
	}
}

// Router wires the handlers and middleware into a gin engine.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = s.cfg.MaxUploadBytes

	router.Use(gin.Recovery())
	router.Use(RequestLogger(s.logger))
	router.Use(RequestMetrics())

	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/upload", s.upload)
	router.POST("/ask", s.ask)
	return router
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
