package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/infra"
	"server/internal/service"
)

// The sweeper keeps stored listing rows honest: visibility queries
// already treat overdue listings as gone, this binary persists that fact
// on an interval so dashboards and owner views agree.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "sweeper")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("sweeper: db connection failed")
	}
	defer pool.Close()

	listings := repo.NewListingRepository(pool)
	creditStore := repo.NewCreditStore(pool)
	audit := repo.NewAuditRepository(pool)
	credits := service.NewCreditService(creditStore, audit, logger)
	svc := service.NewListingService(credits, listings, logger)

	logger.Info().Dur("interval", cfg.SweepInterval).Msg("sweeper: started")

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	sweep(ctx, svc, logger)
	for {
		select {
		case <-ctx.Done():
			if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("sweeper: stopped with error")
			}
			logger.Info().Msg("sweeper: stopped")
			return
		case <-ticker.C:
			sweep(ctx, svc, logger)
		}
	}
}

func sweep(ctx context.Context, svc *service.ListingService, logger infra.Logger) {
	n, err := svc.ExpireDue(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("sweeper: expiry sweep failed")
		return
	}
	logger.Debug().Int64("expired", n).Msg("sweeper: sweep complete")
}
