package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
	"tourism-backend/internal/repositories"
)

var userColumns = []string{
	"user_id", "first_name", "last_name", "email", "phone_number",
	"password_hash", "profile_picture", "user_type", "is_active", "created_at",
}

func TestTokenRoundTrip(t *testing.T) {
	svc := AuthService{JWTSecret: []byte("test-secret")}

	token, err := svc.issueToken(models.User{
		ID: 42, Email: "guide@example.com", UserType: "guide",
	})
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}

	p, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if p.UserID != 42 || p.Role != domain.RoleGuide || p.Email != "guide@example.com" {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	signer := AuthService{JWTSecret: []byte("signing-secret")}
	token, err := signer.issueToken(models.User{ID: 1, UserType: "visitor"})
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}

	verifier := AuthService{JWTSecret: []byte("other-secret")}
	if _, err := verifier.ParseToken(token); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := AuthService{JWTSecret: []byte("test-secret"), TokenTTL: -time.Hour}
	token, err := svc.issueToken(models.User{ID: 1, UserType: "visitor"})
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}
	if _, err := svc.ParseToken(token); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	mock.ExpectQuery("FROM users").WithArgs("visitor@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			1, "Abebe", "Kebede", "visitor@example.com", "",
			string(hash), "", "visitor", true, "2026-08-28 10:00:00",
		))

	svc := AuthService{Users: repositories.UserRepository{DB: db}, JWTSecret: []byte("test-secret")}
	if _, err := svc.Login("visitor@example.com", "wrong"); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := AuthService{JWTSecret: []byte("test-secret")}

	cases := []RegisterInput{
		{LastName: "Kebede", Email: "a@b.c", Password: "secret1"},             // missing first name
		{FirstName: "Abebe", Email: "not-an-email", Password: "secret1"},      // bad email
		{FirstName: "Abebe", Email: "a@b.c", Password: "short"},               // short password
		{FirstName: "Abebe", Email: "a@b.c", Password: "secret1", UserType: "owner"}, // unknown role
	}
	for i, in := range cases {
		if _, err := svc.Register(in); !domain.IsValidation(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}
