package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-candidate-scout/config"
	_ "go-candidate-scout/docs" // Important for Swagger
	"go-candidate-scout/internal/bootstrap"
	v1 "go-candidate-scout/internal/delivery/http/v1"
	"go-candidate-scout/pkg/auth"
	"go-candidate-scout/pkg/logger"
)

// @title           Candidate Scout API
// @version         1.0
// @description     Browse GitHub profiles as candidates and manage the accepted list.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.InitWithFile(cfg.LogFile)
	logger.Log.Info("Starting candidate scout", "port", cfg.Port, "store", cfg.StoreDriver)

	// 3. Setup Stores and UseCases
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := bootstrap.New(startCtx, cfg)
	cancelStart()
	if err != nil {
		logger.Log.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// 4. Setup Auth Provider (JWKS)
	var jwksProvider *auth.Provider
	if cfg.AuthJWKSURL != "" {
		jwksProvider = auth.NewProvider(cfg.AuthJWKSURL, nil)
	}

	// 5. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AcquisitionUC: app.AcquisitionUC,
		SavedUC:       app.SavedUC,
		HealthUC:      app.HealthUC,
		Avatars:       app.Avatars,
		JWKSProvider:  jwksProvider,
		Config:        cfg,
	})

	// 6. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Acquisitions can sleep for several seconds between directory calls
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
