package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/fca-fines-api/internal/app"
	"github.com/Nazarious-ucu/fca-fines-api/internal/config"
	"github.com/Nazarious-ucu/fca-fines-api/pkg/logger"
)

const serviceName = "fca-fines-api"

// @title FCA Fines API
// @version 1.0
// @description Homepage statistics, digest verification and content for the FCA fines dashboard
// @host localhost:8080
// @BasePath /api/
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	l, err := logger.NewLogger(cfg.LogsPath, serviceName)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	if err := run(*cfg, l); err != nil {
		l.Error("application stopped with error", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
	_ = l.Sync()
}

func run(cfg config.Config, l *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, l)

	container, err := application.Init(ctx)
	if err != nil {
		return err
	}

	return application.Start(ctx, container)
}
