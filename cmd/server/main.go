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

	"github.com/fluvi/retail-monitor/internal/api"
	"github.com/fluvi/retail-monitor/internal/collector"
	"github.com/fluvi/retail-monitor/internal/config"
	"github.com/fluvi/retail-monitor/internal/feed"
	"github.com/fluvi/retail-monitor/internal/storage"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Select the feed backend
	var src feed.Feed
	switch cfg.Feed.Mode {
	case "postgres":
		pg, err := feed.NewPostgresFeed(cfg.Feed.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pg.Close()
		src = pg
		log.Println("Feed backend: postgres")
	case "http", "":
		src = feed.NewClient(cfg.Feed)
		log.Println("Feed backend: http")
	default:
		log.Fatalf("Unknown feed mode %q (want http or postgres)", cfg.Feed.Mode)
	}

	// Optional redis snapshot cache
	var store *storage.Store
	if cfg.Cache.Enabled {
		store = storage.New(cfg.Cache.RedisAddr, cfg.Cache.RedisDB, cfg.Cache.TTL())
		defer store.Close()
		log.Printf("Snapshot cache enabled: %s", cfg.Cache.RedisAddr)
	}

	// Start the refresh loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	coll := collector.New(src, store, cfg.Polling, cfg.Analytics)
	go coll.Start(ctx)

	server := api.NewServer(coll)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
