package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"curamind-be/internal/bootstrap"
	"curamind-be/internal/config"
	"curamind-be/internal/server"
	"curamind-be/internal/tracer"
	"curamind-be/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()

	// 2. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Dependencies
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	shutdownTracer := tracer.Init(tracer.Config{
		Enabled:     cfg.App.OtelEnabled,
		Endpoint:    cfg.App.OtelEndpoint,
		ServiceName: "curamind-be",
		Environment: cfg.App.Environment,
		SampleRatio: cfg.App.OtelSampleRatio,
	}, container.Logger)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Background services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Mail consumer failed to start: %v", err)
	}
	go container.WebSocketHub.Run(ctx)
	if err := container.NotificationService.Start(); err != nil {
		log.Printf("Notification worker failed to start: %v", err)
	}

	// 5. HTTP
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
