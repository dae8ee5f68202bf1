package outbox

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"tourism-backend/internal/repositories"
	"tourism-backend/internal/services"
	"tourism-backend/internal/utils"
)

var (
	dispatchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_dispatched_total",
		Help: "Outbox events successfully materialized into notifications.",
	})
	failedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "Outbox delivery attempts that ended in an error.",
	})
	pollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_poll_errors_total",
		Help: "Polling rounds that failed before any event was handled.",
	})
)

// Dispatcher drains the notification outbox: each tick it locks a
// batch of pending events, materializes them into notification rows
// and stamps them processed. Failed events keep their attempt count
// and are retried until MaxAttempts.
type Dispatcher struct {
	DB       *sql.DB
	Outbox   repositories.OutboxRepository
	Notifier services.NotificationService

	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

func (d *Dispatcher) interval() time.Duration {
	if d.Interval > 0 {
		return d.Interval
	}
	return 2 * time.Second
}

func (d *Dispatcher) batchSize() int {
	if d.BatchSize > 0 {
		return d.BatchSize
	}
	return 50
}

func (d *Dispatcher) maxAttempts() int {
	if d.MaxAttempts > 0 {
		return d.MaxAttempts
	}
	return 5
}

// Run polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	log := utils.Logger()
	log.Info("outbox dispatcher started",
		zap.Duration("interval", d.interval()), zap.Int("batch_size", d.batchSize()))

	ticker := time.NewTicker(d.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := d.RunOnce(); err != nil {
				pollErrors.Inc()
				log.Warn("outbox poll failed", zap.Error(err))
			}
		}
	}
}

// RunOnce handles one batch and reports how many events it processed.
// Locking and delivery share a transaction so a crash mid-batch leaves
// the events pending for the next round.
func (d *Dispatcher) RunOnce() (int, error) {
	tx, err := d.DB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	events, err := d.Outbox.PendingBatch(tx, d.batchSize(), d.maxAttempts())
	if err != nil {
		return 0, err
	}

	done := 0
	for _, e := range events {
		if err := d.Notifier.Deliver(tx, e); err != nil {
			failedTotal.Inc()
			utils.Logger().Warn("outbox event delivery failed",
				zap.Int64("event_id", e.ID), zap.Int("attempts", e.Attempts+1), zap.Error(err))
			if err := d.Outbox.MarkFailed(tx, e.ID, err.Error()); err != nil {
				return done, err
			}
			continue
		}
		if err := d.Outbox.MarkProcessed(tx, e.ID); err != nil {
			return done, err
		}
		dispatchedTotal.Inc()
		done++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return done, nil
}
