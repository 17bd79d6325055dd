package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theo/champion-teams-website/internal/api"
	"github.com/theo/champion-teams-website/internal/balance"
	"github.com/theo/champion-teams-website/internal/config"
	"github.com/theo/champion-teams-website/internal/repository/postgres"
	"github.com/theo/champion-teams-website/internal/scoring"
	"github.com/theo/champion-teams-website/internal/service"
	"github.com/theo/champion-teams-website/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Balance constants: watch the override file when one is configured,
	// otherwise serve the shipped defaults.
	var source balance.Source
	if cfg.BalanceFile != "" {
		watcher, closeWatcher, err := balance.FromFile(cfg.BalanceFile)
		if err != nil {
			log.Fatalf("failed to load balance file: %v", err)
		}
		defer closeWatcher()
		source = watcher
		log.Printf("Balance constants loaded from %s", cfg.BalanceFile)
	} else {
		source = balance.NewStatic(scoring.DefaultConstants())
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, cfg, source, hub)

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Background maintenance: drop expired sessions and finished jobs
	maintenanceCtx, stopMaintenance := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-maintenanceCtx.Done():
				return
			case <-ticker.C:
				if err := services.Auth.CleanupExpiredSessions(maintenanceCtx); err != nil {
					log.Printf("session cleanup failed: %v", err)
				}
				services.Optimize.Reap(24 * time.Hour)
			}
		}
	}()

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopMaintenance()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	hub.Stop()
	log.Println("Server stopped")
}
