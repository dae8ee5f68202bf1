package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"tourism-backend/internal/domain/models"
)

func TestSiteUpdateResetsApproval(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	name := "Axum Obelisks"
	mock.ExpectExec(`UPDATE sites SET is_approved=FALSE, approved_by=NULL, approved_at=NULL, site_name=\?`).
		WithArgs(name, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := SiteRepository{DB: db}
	if err := repo.Update(3, models.SiteInput{SiteName: &name}); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSiteApproveOnlyFiresOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE sites SET is_approved=TRUE`).
		WithArgs(int64(2), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // already approved

	repo := SiteRepository{DB: db}
	changed, err := repo.Approve(nil, 3, 2)
	if err != nil {
		t.Fatalf("approve error: %v", err)
	}
	if changed {
		t.Fatal("expected no state change on an approved site")
	}
}
