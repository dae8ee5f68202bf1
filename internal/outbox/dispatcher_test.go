package outbox

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"tourism-backend/internal/repositories"
	"tourism-backend/internal/services"
)

var outboxColumns = []string{
	"event_id", "audience", "recipient_id", "title", "message",
	"notification_type", "related_request_id", "related_payment_id", "attempts",
}

func newDispatcher(t *testing.T) (*Dispatcher, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	d := &Dispatcher{
		DB:     db,
		Outbox: repositories.OutboxRepository{DB: db},
		Notifier: services.NotificationService{
			Notifications: repositories.NotificationRepository{DB: db},
			Users:         repositories.UserRepository{DB: db},
		},
	}
	return d, mock, func() { db.Close() }
}

func TestRunOnceFansOutToAdmins(t *testing.T) {
	d, mock, done := newDispatcher(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM notification_outbox").
		WillReturnRows(sqlmock.NewRows(outboxColumns).AddRow(
			1, "admins", 0, "New Guide Request", "A visitor requested a guide.",
			"guide_request", 9, 0, 0,
		))
	mock.ExpectQuery("FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2).AddRow(5))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE notification_outbox").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := d.RunOnce()
	if err != nil {
		t.Fatalf("run once error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 processed event, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunOnceRecordsFailureForRetry(t *testing.T) {
	d, mock, done := newDispatcher(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM notification_outbox").
		WillReturnRows(sqlmock.NewRows(outboxColumns).AddRow(
			1, "admins", 0, "New Guide Request", "A visitor requested a guide.",
			"guide_request", 9, 0, 2,
		))
	mock.ExpectQuery("FROM users").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectExec("UPDATE notification_outbox").
		WillReturnResult(sqlmock.NewResult(0, 1)) // attempts+1, last_error stored
	mock.ExpectCommit()

	n, err := d.RunOnce()
	if err != nil {
		t.Fatalf("run once error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 processed events, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunOnceEmptyBatch(t *testing.T) {
	d, mock, done := newDispatcher(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM notification_outbox").
		WillReturnRows(sqlmock.NewRows(outboxColumns))
	mock.ExpectCommit()

	n, err := d.RunOnce()
	if err != nil {
		t.Fatalf("run once error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no processed events, got %d", n)
	}
}
