package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
	"tourism-backend/internal/repositories"
)

var requestColumns = []string{
	"request_id", "visitor_id", "visitor_name", "site_id", "site_name",
	"guide_type", "preferred_date", "preferred_time", "number_of_visitors",
	"special_requirements", "meeting_point", "request_status",
	"assigned_guide_id", "admin_notes", "visit_price", "created_at", "updated_at",
}

func requestRow(id, visitorID int64, status string, guideID int64) *sqlmock.Rows {
	return sqlmock.NewRows(requestColumns).AddRow(
		id, visitorID, "Abebe Kebede", 3, "Lalibela Rock-Hewn Churches",
		"standard", "2026-09-15", "09:00", 2,
		"", "Main gate", status,
		guideID, "", 500.0, "2026-08-28 10:00:00", "2026-08-28 10:00:00",
	)
}

func newRequestService(t *testing.T) (RequestService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := RequestService{
		DB:       db,
		Requests: repositories.RequestRepository{DB: db},
		Payments: repositories.PaymentRepository{DB: db},
		Visits:   repositories.VisitRepository{DB: db},
		Outbox:   repositories.OutboxRepository{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func TestCreateRequestRejectsBadInput(t *testing.T) {
	svc, _, done := newRequestService(t)
	defer done()

	cases := []struct {
		name string
		in   models.GuideRequestInput
	}{
		{"missing site", models.GuideRequestInput{PreferredDate: "2026-09-15", PreferredTime: "09:00", NumberOfVisitors: 2}},
		{"bad date", models.GuideRequestInput{SiteID: 3, PreferredDate: "15/09/2026", PreferredTime: "09:00", NumberOfVisitors: 2}},
		{"bad time", models.GuideRequestInput{SiteID: 3, PreferredDate: "2026-09-15", PreferredTime: "late morning", NumberOfVisitors: 2}},
		{"zero visitors", models.GuideRequestInput{SiteID: 3, PreferredDate: "2026-09-15", PreferredTime: "09:00"}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(1, tc.in); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	if _, err := svc.Create(0, models.GuideRequestInput{}); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error for anonymous create")
	}
}

func TestApproveRejectedWithoutConfirmedPayment(t *testing.T) {
	svc, mock, done := newRequestService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM payments").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectQuery("FROM guide_requests").WithArgs(int64(9)).
		WillReturnRows(requestRow(9, 1, "pending", 0))
	mock.ExpectRollback()

	if _, err := svc.Approve(9); !domain.IsPrecondition(err) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApproveCreatesVisitAndNotifiesOnce(t *testing.T) {
	svc, mock, done := newRequestService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM payments").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("UPDATE guide_requests SET request_status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM guide_requests").WithArgs(int64(9)).
		WillReturnRows(requestRow(9, 1, "approved", 0))
	mock.ExpectExec("INSERT INTO visits").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec("INSERT INTO notification_outbox").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	req, err := svc.Approve(9)
	if err != nil {
		t.Fatalf("approve error: %v", err)
	}
	if req.Status != "approved" {
		t.Fatalf("unexpected status %q", req.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApproveAlreadyApprovedIsIdempotent(t *testing.T) {
	svc, mock, done := newRequestService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM payments").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("UPDATE guide_requests SET request_status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM guide_requests").WithArgs(int64(9)).
		WillReturnRows(requestRow(9, 1, "approved", 0))
	mock.ExpectRollback()

	req, err := svc.Approve(9)
	if err != nil {
		t.Fatalf("second approve should succeed, got %v", err)
	}
	if req.Status != "approved" {
		t.Fatalf("unexpected status %q", req.Status)
	}
	// no visit insert and no outbox event expected
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignGuideRefusedInWrongState(t *testing.T) {
	svc, mock, done := newRequestService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE guide_requests").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM guide_requests").WithArgs(int64(9)).
		WillReturnRows(requestRow(9, 1, "pending", 0))
	mock.ExpectRollback()

	if _, err := svc.AssignGuide(9, 5); !domain.IsPrecondition(err) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusValidatesValue(t *testing.T) {
	svc, _, done := newRequestService(t)
	defer done()

	if _, err := svc.UpdateStatus(9, "finished", domain.Principal{UserID: 2, Role: domain.RoleAdmin}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
