package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"tourism-backend/internal/domain"
)

func TestUserDeleteCascadeNullifiesReferences(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE sites SET researcher_id=NULL`).WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE sites SET approved_by=NULL`).WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE guide_requests SET visitor_id=NULL`).WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE guide_requests SET assigned_guide_id=NULL`).WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE payments SET confirmed_by=NULL`).WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM notifications`).WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM reviews`).WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := UserRepository{DB: db}
	if err := repo.DeleteCascade(7); err != nil {
		t.Fatalf("delete cascade error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserDeleteCascadeMissingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	for _, pattern := range []string{
		`UPDATE sites SET researcher_id=NULL`,
		`UPDATE sites SET approved_by=NULL`,
		`UPDATE guide_requests SET visitor_id=NULL`,
		`UPDATE guide_requests SET assigned_guide_id=NULL`,
		`UPDATE payments SET confirmed_by=NULL`,
		`DELETE FROM notifications`,
		`DELETE FROM reviews`,
	} {
		mock.ExpectExec(pattern).WithArgs(int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := UserRepository{DB: db}
	if err := repo.DeleteCascade(99); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
