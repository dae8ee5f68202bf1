package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/gateway"
	"tourism-backend/internal/repositories"
)

var paymentColumns = []string{
	"payment_id", "request_id", "total_amount", "currency",
	"reference_code", "payment_status", "paid_at", "confirmed_by",
	"confirmed_at", "visitor_id", "visitor_name", "site_name", "created_at",
}

func paymentRow(id, requestID int64, status, reference string) *sqlmock.Rows {
	return sqlmock.NewRows(paymentColumns).AddRow(
		id, requestID, 500.0, "ETB", reference, status,
		"", 0, "", 1, "Abebe Kebede", "Lalibela Rock-Hewn Churches",
		"2026-08-28 10:00:00",
	)
}

func newPaymentService(t *testing.T, chapa *gateway.ChapaClient) (PaymentService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := PaymentService{
		DB:       db,
		Payments: repositories.PaymentRepository{DB: db},
		Requests: repositories.RequestRepository{DB: db},
		Outbox:   repositories.OutboxRepository{DB: db},
		Gateway:  chapa,
	}
	return svc, mock, func() { db.Close() }
}

func TestInitializeWithoutGatewayStillRecordsPayment(t *testing.T) {
	svc, mock, done := newPaymentService(t, gateway.NewChapaClient("", ""))
	defer done()

	mock.ExpectQuery("FROM guide_requests").WithArgs(int64(9)).
		WillReturnRows(requestRow(9, 1, "pending", 0))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("FROM payments").WithArgs(int64(7)).
		WillReturnRows(paymentRow(7, 9, "waiting", "TX-ABCDEF123456"))

	res, err := svc.Initialize(context.Background(), 9, 500, "ETB")
	if err != nil {
		t.Fatalf("initialize error: %v", err)
	}
	if res.Routed {
		t.Fatal("expected degraded result without a configured gateway")
	}
	if res.Payment.Status != "waiting" {
		t.Fatalf("unexpected payment status %q", res.Payment.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeValidatesAmount(t *testing.T) {
	svc, _, done := newPaymentService(t, gateway.NewChapaClient("", ""))
	defer done()

	if _, err := svc.Initialize(context.Background(), 9, 0, "ETB"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVerifyByReferenceIdempotent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"ok","data":{"status":"success"}}`))
	}))
	defer ts.Close()

	svc, mock, done := newPaymentService(t, gateway.NewChapaClient(ts.URL, "test-key"))
	defer done()

	ref := "TX-ABCDEF123456"
	mock.ExpectQuery("FROM payments").WithArgs(ref).
		WillReturnRows(paymentRow(7, 9, "confirmed", ref))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments").
		WillReturnResult(sqlmock.NewResult(0, 0)) // already confirmed
	mock.ExpectCommit()
	mock.ExpectQuery("FROM payments").WithArgs(ref).
		WillReturnRows(paymentRow(7, 9, "confirmed", ref))

	res, err := svc.VerifyByReference(context.Background(), ref)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if !res.Confirmed {
		t.Fatal("expected confirmed result")
	}
	// no outbox enqueue expected on the repeat verification
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyByIDToleratesDuplicateProof(t *testing.T) {
	svc, mock, done := newPaymentService(t, gateway.NewChapaClient("", ""))
	defer done()

	ref := "TX-ABCDEF123456"
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM payments").WithArgs(int64(7)).
		WillReturnRows(paymentRow(7, 9, "confirmed", ref))
	mock.ExpectExec("INSERT INTO payment_proofs").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "duplicate"})
	mock.ExpectExec("INSERT INTO notification_outbox").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO notification_outbox").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	p, err := svc.VerifyByID(7, domain.Principal{UserID: 2, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("verify by id error: %v", err)
	}
	if p.Status != "confirmed" {
		t.Fatalf("unexpected status %q", p.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHasConfirmedPaymentFalseWhenMissing(t *testing.T) {
	svc, mock, done := newPaymentService(t, gateway.NewChapaClient("", ""))
	defer done()

	mock.ExpectQuery("SELECT 1 FROM payments").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	if svc.HasConfirmedPayment(9) {
		t.Fatal("expected false for a request without a confirmed payment")
	}
}
