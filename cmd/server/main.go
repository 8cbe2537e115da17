// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/activity"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/auth"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/config"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/database"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/handlers"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/notify"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/uploads"
)

func main() {
	auth.Init()
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	store, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	up, err := uploads.NewStore(cfg.UploadsDir)
	if err != nil {
		log.Fatalf("failed to init uploads dir: %v", err)
	}

	// The activity log is best effort: without Redis the server still runs.
	publisher, err := activity.NewPublisher(cfg)
	if err != nil {
		logger.WithError(err).Warn("activity log disabled, Redis unavailable")
		publisher = nil
	}

	srv := handlers.NewServer(store, logger, up, publisher, notify.New())

	logger.Infof("Running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Routes()); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
