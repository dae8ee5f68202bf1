package services

import (
	"fmt"

	"go.uber.org/zap"

	"tourism-backend/internal/domain/models"
	"tourism-backend/internal/repositories"
	"tourism-backend/internal/utils"
)

// NotificationService persists in-app notifications and materializes
// queued outbox events into per-recipient rows.
type NotificationService struct {
	Notifications repositories.NotificationRepository
	Users         repositories.UserRepository
}

// Notify writes a single-recipient notification row.
func (s NotificationService) Notify(q repositories.Querier, userID int64, title, message, typ string, requestID, paymentID int64) error {
	if userID <= 0 {
		return nil
	}
	_, err := s.Notifications.Insert(q, models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		Type:             typ,
		RelatedRequestID: requestID,
		RelatedPaymentID: paymentID,
	})
	return err
}

// NotifyAdmins fans a message out to every active admin, one row each.
// A failure for one admin does not stop the rest; the first error is
// reported so the caller can retry the event.
func (s NotificationService) NotifyAdmins(q repositories.Querier, title, message, typ string, requestID, paymentID int64) error {
	admins, err := s.Users.AdminIDs(q)
	if err != nil {
		return fmt.Errorf("resolve admins: %w", err)
	}

	var firstErr error
	for _, id := range admins {
		if err := s.Notify(q, id, title, message, typ, requestID, paymentID); err != nil {
			utils.Logger().Warn("admin notification failed",
				zap.Int64("admin_id", id), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Deliver materializes one outbox event.
func (s NotificationService) Deliver(q repositories.Querier, e models.OutboxEvent) error {
	if e.Audience == models.AudienceAdmins {
		return s.NotifyAdmins(q, e.Title, e.Message, e.Type, e.RelatedRequestID, e.RelatedPaymentID)
	}
	return s.Notify(q, e.RecipientID, e.Title, e.Message, e.Type, e.RelatedRequestID, e.RelatedPaymentID)
}

func (s NotificationService) ListForUser(userID int64) ([]models.Notification, error) {
	return s.Notifications.ListForUser(userID)
}

func (s NotificationService) MarkRead(id, userID int64) error {
	return s.Notifications.MarkRead(id, userID)
}
