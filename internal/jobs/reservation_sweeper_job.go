package jobs

import (
	"context"
	"log/slog"
	"time"

	"checkout/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// ReservationSweeperJob reclaims inventory holds whose checkout never
// finished: a hold that outlived its TTL is released back into stock.
type ReservationSweeperJob struct {
	inventory ports.InventoryStore
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewReservationSweeperJob creates the expired-hold sweeper.
func NewReservationSweeperJob(inventory ports.InventoryStore, logger *slog.Logger) *ReservationSweeperJob {
	return &ReservationSweeperJob{
		inventory: inventory,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "reservation_sweeper_job"),
	}
}

// Start begins sweeping every 30 seconds.
func (j *ReservationSweeperJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reservation sweeper started (running every 30 seconds)")
	return nil
}

// Stop stops the sweeper.
func (j *ReservationSweeperJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reservation sweeper stopped")
}

// RunOnce releases every hold whose deadline has passed.
func (j *ReservationSweeperJob) RunOnce(ctx context.Context) {
	released, err := j.inventory.ReleaseExpired(ctx, time.Now())
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to release expired holds", "error", err)
		return
	}
	if released > 0 {
		j.logger.InfoContext(ctx, "Released expired holds", "count", released)
	}
}
