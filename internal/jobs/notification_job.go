package jobs

import (
	"context"
	"log/slog"
	"time"

	"checkout/internal/core/domain/model/outbox"
	"checkout/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// NotificationJob drains the outbox: due messages are handed to the mailer
// and their delivery bookkeeping is written back. Failures reschedule the
// message with exponential backoff until its attempts are exhausted.
type NotificationJob struct {
	uowFactory  ports.UnitOfWorkFactory
	mailer      ports.Mailer
	maxAttempts int
	backoffBase time.Duration
	batchSize   int
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewNotificationJob creates the outbox delivery worker.
func NewNotificationJob(
	uowFactory ports.UnitOfWorkFactory,
	mailer ports.Mailer,
	maxAttempts int,
	backoffBase time.Duration,
	logger *slog.Logger,
) *NotificationJob {
	return &NotificationJob{
		uowFactory:  uowFactory,
		mailer:      mailer,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		batchSize:   50,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "notification_job"),
	}
}

// Start begins polling the outbox every five seconds.
func (j *NotificationJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification job started (polling every 5 seconds)")
	return nil
}

// Stop stops the notification job.
func (j *NotificationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification job stopped")
}

// RunOnce processes one batch of due messages. Each message's bookkeeping is
// written individually so one bad row never wedges the whole batch.
func (j *NotificationJob) RunOnce(ctx context.Context) {
	repo := j.uowFactory.Create().OutboxRepository()

	now := time.Now().UTC()
	due, err := repo.GetDue(ctx, now, j.maxAttempts, j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to read due messages", "error", err)
		return
	}

	for _, message := range due {
		j.deliver(ctx, repo, message)
	}
}

func (j *NotificationJob) deliver(ctx context.Context, repo ports.OutboxRepository, message *outbox.Message) {
	err := j.mailer.Send(ctx, ports.Email{
		To:      message.Recipients(),
		Subject: message.Subject(),
		Body:    message.Body(),
	})

	now := time.Now().UTC()
	if err != nil {
		message.MarkFailed(now, err, j.backoffBase)
		j.logger.WarnContext(ctx, "Delivery attempt failed",
			"messageId", message.ID().String(),
			"kind", string(message.Kind()),
			"attempts", message.Attempts(),
			"error", err,
		)
	} else {
		message.MarkSent(now)
	}

	if updateErr := repo.Update(ctx, message); updateErr != nil {
		j.logger.ErrorContext(ctx, "Failed to update message bookkeeping",
			"messageId", message.ID().String(), "error", updateErr)
	}
}
