package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/forkful/forkful-v2/backend/config"
	"github.com/forkful/forkful-v2/backend/internal/database"
	"github.com/forkful/forkful-v2/backend/internal/service"
)

// One-shot expiry sweep, for cron-style deployments that don't want the
// in-process sweeper.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := service.NewChatService(db, nil, logger).SweepExpired(ctx)
	if err != nil {
		logger.Fatal("sweep failed", zap.Error(err))
	}
	logger.Info("sweep complete", zap.Int64("removed", removed))
}
