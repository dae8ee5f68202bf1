package models

// Notification is an in-app message addressed to exactly one user.
type Notification struct {
	ID               int64  `json:"notification_id"`
	UserID           int64  `json:"user_id"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	Type             string `json:"notification_type"`
	IsRead           bool   `json:"is_read"`
	RelatedRequestID int64  `json:"related_request_id,omitempty"`
	RelatedPaymentID int64  `json:"related_payment_id,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// Outbox audiences.
const (
	AudienceUser   = "user"
	AudienceAdmins = "admins"
)

// OutboxEvent is a pending notification delivery. Events addressed to
// the admins audience fan out to one notification row per admin at
// dispatch time.
type OutboxEvent struct {
	ID               int64  `json:"event_id"`
	Audience         string `json:"audience"`
	RecipientID      int64  `json:"recipient_id,omitempty"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	Type             string `json:"notification_type"`
	RelatedRequestID int64  `json:"related_request_id,omitempty"`
	RelatedPaymentID int64  `json:"related_payment_id,omitempty"`
	Attempts         int    `json:"attempts"`
	LastError        string `json:"last_error,omitempty"`
}
