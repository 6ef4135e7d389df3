package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tyler180/fantasy-roster-values/internal/app/api"
	"github.com/tyler180/fantasy-roster-values/internal/config"
	"github.com/tyler180/fantasy-roster-values/internal/logging"
)

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "roster-values-api",
		Version: version,
	})
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := api.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	go app.Warm(ctx)

	if cfg.DirectoryReloadCron != "" {
		stopReload, err := app.Directory.ScheduleReload(cfg.DirectoryReloadCron)
		if err != nil {
			log.Fatalf("directory reload schedule %q: %v", cfg.DirectoryReloadCron, err)
		}
		defer stopReload()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
