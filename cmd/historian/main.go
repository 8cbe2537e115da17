// cmd/historian/main.go is the asynchronous activity-log consumer: it pops
// activity records from the Redis queue and persists them to the
// activity_log table in batches.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/activity"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/config"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/database"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	store, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	hist := activity.NewHistorian(cfg, store, logger)
	defer hist.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	logger.Info("historian started")
	hist.Run(ctx)
	logger.Info("historian shutting down")
}
