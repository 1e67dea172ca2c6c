package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tipcircle/tipboard/app"
	"github.com/tipcircle/tipboard/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		application.Logger.Error("Application stopped with error", "error", err)
	}

	application.Close(context.Background())
	application.Logger.Info("Application shut down gracefully")
}
