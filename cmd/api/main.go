package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/makanlah/backend/config"
	"github.com/makanlah/backend/internal/database"
	"github.com/makanlah/backend/internal/server"
	"github.com/makanlah/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gormDB, err := database.NewGormDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthDB, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to open health-check connection: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s3cfg, err := config.NewS3Config(ctx)
	if err != nil {
		log.Printf("S3 unavailable, review photo uploads disabled: %v", err)
		s3cfg = nil
	}

	// Abandoned group sessions get swept out hourly.
	groupOrders := service.NewGroupOrderService(gormDB, service.NewNotificationService(gormDB))
	groupOrders.StartExpirySweep(ctx, time.Hour)

	srv := server.New(cfg, gormDB, healthDB, redisClient, s3cfg)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cfg.ServerHost, cfg.ServerPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
