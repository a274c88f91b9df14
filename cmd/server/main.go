// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planwise/buyouts-forecast/internal/api"
	"github.com/planwise/buyouts-forecast/internal/config"
	"github.com/planwise/buyouts-forecast/internal/ingest"
	"github.com/planwise/buyouts-forecast/internal/pipeline"
	"github.com/planwise/buyouts-forecast/internal/service"
	"github.com/planwise/buyouts-forecast/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Pipeline.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Run the pipeline once at startup; the API serves that run from memory.
	ctx := context.Background()
	inputs, err := ingest.LoadInputs(ctx, cfg.Files.RawFile, cfg.Files.LeadTimeFile)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load input tables")
	}

	result, err := pipeline.New(cfg.Forecast, cfg.Pipeline.WorkerCount).Run(ctx, time.Now(), inputs)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Pipeline run failed")
	}

	store := service.NewResultStore()
	store.Set(result)

	router := api.NewRouter(store, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
