package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-dreamteam/internal/api"
	"github.com/stitts-dev/dfs-dreamteam/internal/services"
	"github.com/stitts-dev/dfs-dreamteam/pkg/config"
	"github.com/stitts-dev/dfs-dreamteam/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.WithService("dreamteam")
	log.WithFields(logrus.Fields{
		"environment":  cfg.Env,
		"port":         cfg.Port,
		"budget":       cfg.Budget,
		"max_per_team": cfg.MaxPerTeam,
		"workers":      cfg.SearchWorkers,
	}).Info("Starting dreamteam service")

	gin.SetMode(ginMode(cfg))

	service := services.NewDreamTeamService(cfg)
	router := api.SetupRouter(service, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Dreamteam service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down dreamteam service...")

	// in-flight builds get 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Dreamteam service forced to shutdown: %v", err)
	}

	log.Info("Dreamteam service exited")
}

// ginMode keeps debug routing output out of production logs
func ginMode(cfg *config.Config) string {
	switch {
	case cfg.IsProduction():
		return gin.ReleaseMode
	case cfg.IsDevelopment():
		return gin.DebugMode
	default:
		return gin.TestMode
	}
}
