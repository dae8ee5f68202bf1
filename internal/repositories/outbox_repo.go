package repositories

import (
	"database/sql"

	"tourism-backend/internal/domain/models"
)

type OutboxRepository struct {
	DB *sql.DB
}

// Enqueue records a pending notification delivery, normally inside the
// same transaction as the state change that produced it.
func (r OutboxRepository) Enqueue(q Querier, e models.OutboxEvent) (int64, error) {
	if q == nil {
		q = r.DB
	}
	res, err := q.Exec(`
		INSERT INTO notification_outbox
			(audience, recipient_id, title, message, notification_type, related_request_id, related_payment_id)
		VALUES (?, NULLIF(?,0), ?, ?, ?, NULLIF(?,0), NULLIF(?,0))`,
		e.Audience, e.RecipientID, e.Title, e.Message, e.Type, e.RelatedRequestID, e.RelatedPaymentID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// PendingBatch locks up to limit undelivered events for this consumer.
// Must run inside a transaction; SKIP LOCKED keeps concurrent
// dispatchers from stalling on each other.
func (r OutboxRepository) PendingBatch(tx *sql.Tx, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	rows, err := tx.Query(`
		SELECT event_id, audience, COALESCE(recipient_id,0), title, message,
		       notification_type, COALESCE(related_request_id,0),
		       COALESCE(related_payment_id,0), attempts
		FROM notification_outbox
		WHERE processed_at IS NULL AND attempts < ?
		ORDER BY created_at
		LIMIT ?
		FOR UPDATE SKIP LOCKED`, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.OutboxEvent
	for rows.Next() {
		var e models.OutboxEvent
		if err := rows.Scan(
			&e.ID, &e.Audience, &e.RecipientID, &e.Title, &e.Message,
			&e.Type, &e.RelatedRequestID, &e.RelatedPaymentID, &e.Attempts,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r OutboxRepository) MarkProcessed(tx *sql.Tx, eventID int64) error {
	_, err := tx.Exec(`
		UPDATE notification_outbox
		SET processed_at=NOW(), attempts=attempts+1, last_error=NULL
		WHERE event_id=?`, eventID)
	return err
}

func (r OutboxRepository) MarkFailed(tx *sql.Tx, eventID int64, cause string) error {
	_, err := tx.Exec(`
		UPDATE notification_outbox
		SET attempts=attempts+1, last_error=?
		WHERE event_id=?`, cause, eventID)
	return err
}
