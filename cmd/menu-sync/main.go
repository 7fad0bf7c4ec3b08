package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"whattheygot/database"
	"whattheygot/internal/config"
	"whattheygot/internal/http-api/repository"
	"whattheygot/internal/ingestion/dining"

	"github.com/joho/godotenv"
)

func main() {
	log.Println("===========================================")
	log.Println("   Menu Sync Service Starting...")
	log.Println("===========================================")

	if err := godotenv.Load(); err != nil {
		log.Println("[Warning] .env file not found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[Fatal] Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("[Fatal] Failed to connect to database: %v", err)
	}
	log.Println("[Database] Connected successfully")

	syncConfig := dining.SyncConfig{
		FeedURL:   getEnv("DINING_FEED_URL", "https://dining.example.edu/api/v1"),
		APIKey:    getEnv("DINING_FEED_API_KEY", ""),
		DaysAhead: getEnvInt("MENU_SYNC_DAYS_AHEAD", 7),
		Interval:  getEnvDuration("MENU_SYNC_INTERVAL", 24*time.Hour),
	}

	log.Println("[Config] Loaded configuration:")
	log.Printf("  - Feed URL: %s", syncConfig.FeedURL)
	log.Printf("  - Days Ahead: %d", syncConfig.DaysAhead)
	log.Printf("  - Interval: %s", syncConfig.Interval)

	syncService := dining.NewSyncService(syncConfig, repository.NewMenuItemRepository(db))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[Shutdown] Received shutdown signal, stopping...")
		cancel()
	}()

	if err := syncService.RunSync(ctx); err != nil {
		log.Printf("[Sync] Initial sync error: %v", err)
	} else {
		log.Println("[Sync] Initial sync completed")
	}

	if getEnvBool("MENU_SYNC_POLL", true) {
		log.Printf("[Service] Polling every %s, press Ctrl+C to stop", syncConfig.Interval)
		syncService.StartPoller(ctx)
	}

	log.Println("[Service] Menu sync service stopped")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
