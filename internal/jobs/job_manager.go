package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"checkout/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	notificationJob       *NotificationJob
	reservationSweeperJob *ReservationSweeperJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the outbox and inventory dependencies to wire up the job execution.
func NewJobManager(
	uowFactory ports.UnitOfWorkFactory,
	mailer ports.Mailer,
	maxAttempts int,
	backoffBase time.Duration,
	inventory ports.InventoryStore,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		notificationJob:       NewNotificationJob(uowFactory, mailer, maxAttempts, backoffBase, logger),
		reservationSweeperJob: NewReservationSweeperJob(inventory, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.notificationJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification job: %w", err)
	}

	if err := jm.reservationSweeperJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.notificationJob.Stop()
		return fmt.Errorf("failed to start reservation sweeper job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.notificationJob.Stop()
	jm.reservationSweeperJob.Stop()
}
