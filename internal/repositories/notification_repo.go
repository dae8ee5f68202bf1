package repositories

import (
	"database/sql"
	"errors"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func (r NotificationRepository) Insert(q Querier, n models.Notification) (int64, error) {
	if q == nil {
		q = r.DB
	}
	res, err := q.Exec(`
		INSERT INTO notifications (user_id, title, message, notification_type, related_request_id, related_payment_id)
		VALUES (?, ?, ?, ?, NULLIF(?,0), NULLIF(?,0))`,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedRequestID, n.RelatedPaymentID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r NotificationRepository) ListForUser(userID int64) ([]models.Notification, error) {
	rows, err := r.DB.Query(`
		SELECT notification_id, user_id, title, message, notification_type, is_read,
		       COALESCE(related_request_id,0), COALESCE(related_payment_id,0),
		       DATE_FORMAT(created_at,'%Y-%m-%d %H:%i:%s')
		FROM notifications
		WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead,
			&n.RelatedRequestID, &n.RelatedPaymentID, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flips is_read for the recipient only; a miss on either the
// id or the owner is reported as not found.
func (r NotificationRepository) MarkRead(id, userID int64) error {
	res, err := r.DB.Exec(`
		UPDATE notifications SET is_read=TRUE
		WHERE notification_id=? AND user_id=?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// zero rows also happens when the flag was already set
		var one int
		err := r.DB.QueryRow(`
			SELECT 1 FROM notifications
			WHERE notification_id=? AND user_id=?`, id, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "notification"}
		}
		return err
	}
	return nil
}
