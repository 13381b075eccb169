package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/postforge/postforge/internal/archive"
	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/content"
	"github.com/postforge/postforge/internal/delivery"
	"github.com/postforge/postforge/internal/generator"
	"github.com/postforge/postforge/internal/pipeline"
	"github.com/postforge/postforge/internal/scheduler"
	"github.com/postforge/postforge/internal/storage"
	"github.com/postforge/postforge/internal/web"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Postforge")

	// Initialize archive storage
	store, err := newStorage(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	archiveService := archive.NewService(store)

	// Initialize the generation pipeline
	deliveryService := delivery.NewService(cfg)
	gen := generator.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMTemperature, cfg.MaxContentChars)
	pipelineService := pipeline.NewService(cfg, newSource(cfg), gen, archiveService, deliveryService)

	// Initialize scheduler for archive retention sweeps
	schedulerService := scheduler.NewService(cfg, archiveService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Set up HTTP server for the web UI and JSON API
	webServer := web.NewServer(cfg, pipelineService, archiveService)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     webServer.Router(),
		ReadTimeout: 15 * time.Second,
		// POST /generate holds the response open while the pipeline runs
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func newStorage(cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.StorageAccount != "" {
		return storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
	}
	logrus.Infof("AZURE_STORAGE_ACCOUNT not set, archiving to %s", cfg.OutputsDir)
	return storage.NewLocalStorage(cfg.OutputsDir)
}

func newSource(cfg *config.Config) content.Source {
	if cfg.FirecrawlAPIKey != "" {
		return content.NewFirecrawlSource(cfg.FirecrawlAPIKey, cfg.FirecrawlBaseURL)
	}
	logrus.Info("FIRECRAWL_API_KEY not set, using builtin content extraction")
	return content.NewBuiltinSource()
}
