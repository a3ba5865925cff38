package main

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docqa/internal/server"
	"docqa/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP upload and question API",
	Long: `Run the HTTP API.

Endpoints:
  POST /upload   multipart field "file"; indexes it for this browser
  POST /ask      form or JSON field "query"
  GET  /healthz  liveness and session count
  GET  /metrics  Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	comps, err := newComponents(cfg, log)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.Server.GinMode)
	srv := server.New(comps.builder, comps.loader, session.NewRegistry(), server.Config{
		UploadDir:      cfg.Server.UploadDir,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		SecureCookie:   cfg.Server.SecureCookie,
	}, log)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		log.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
