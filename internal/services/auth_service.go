package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
	"tourism-backend/internal/repositories"
	"tourism-backend/internal/utils"
)

// AuthService handles registration, login and token handling.
type AuthService struct {
	Users     repositories.UserRepository
	JWTSecret []byte
	TokenTTL  time.Duration
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
	UserType    string `json:"user_type"`
}

// AuthResult couples the signed token with its subject.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (s AuthService) tokenTTL() time.Duration {
	if s.TokenTTL != 0 {
		return s.TokenTTL
	}
	return 24 * time.Hour
}

func (s AuthService) Register(in RegisterInput) (AuthResult, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.FirstName == "" {
		return AuthResult{}, domain.ValidationError{Field: "first_name", Msg: "required"}
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return AuthResult{}, domain.ValidationError{Field: "email", Msg: "a valid email is required"}
	}
	if len(in.Password) < 6 {
		return AuthResult{}, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}
	if in.UserType == "" {
		in.UserType = string(domain.RoleVisitor)
	}
	if !domain.ValidRole(in.UserType) {
		return AuthResult{}, domain.ValidationError{Field: "user_type", Msg: "unknown account type"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "password hashing failed", Err: err}
	}

	id, err := s.Users.Create(models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: string(hash),
		UserType:     in.UserType,
		IsActive:     true,
	})
	if err != nil {
		return AuthResult{}, err
	}
	user, err := s.Users.GetByID(id)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return AuthResult{}, err
	}
	utils.Logger().Info("user registered",
		zap.Int64("user_id", id), zap.String("user_type", user.UserType))
	return AuthResult{Token: token, User: user}, nil
}

func (s AuthService) Login(email, password string) (AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.Users.GetByEmail(email)
	if err != nil {
		if domain.IsNotFound(err) {
			return AuthResult{}, domain.UnauthorizedError{Msg: "invalid email or password"}
		}
		return AuthResult{}, err
	}
	if !user.IsActive {
		return AuthResult{}, domain.UnauthorizedError{Msg: "account is deactivated"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, domain.UnauthorizedError{Msg: "invalid email or password"}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user}, nil
}

func (s AuthService) issueToken(u models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.UserType,
		"email":   u.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL()).Unix(),
	})
	signed, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return "", domain.InternalError{Msg: "token signing failed", Err: err}
	}
	return signed, nil
}

// ParseToken validates a bearer token and rebuilds the principal.
func (s AuthService) ParseToken(raw string) (domain.Principal, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return domain.Principal{}, domain.UnauthorizedError{Msg: "invalid or expired token", Err: err}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Principal{}, domain.UnauthorizedError{Msg: "invalid token claims"}
	}

	uid, ok := claims["user_id"].(float64)
	if !ok || uid <= 0 {
		return domain.Principal{}, domain.UnauthorizedError{Msg: "invalid token subject"}
	}
	role, _ := claims["role"].(string)
	if !domain.ValidRole(role) {
		return domain.Principal{}, domain.UnauthorizedError{Msg: "invalid token role"}
	}
	email, _ := claims["email"].(string)

	return domain.Principal{
		UserID: int64(uid),
		Role:   domain.Role(role),
		Email:  email,
	}, nil
}

func (s AuthService) CurrentUser(id int64) (models.User, error) {
	return s.Users.GetByID(id)
}

// ProfileInput carries the self-service profile fields; pointers keep
// absent fields untouched.
type ProfileInput struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	PhoneNumber    *string `json:"phone_number"`
	ProfilePicture *string `json:"profile_picture"`
	Password       *string `json:"password"`
}

func (s AuthService) UpdateProfile(id int64, in ProfileInput) (models.User, error) {
	set := map[string]any{}
	if in.FirstName != nil {
		set["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		set["last_name"] = *in.LastName
	}
	if in.PhoneNumber != nil {
		set["phone_number"] = *in.PhoneNumber
	}
	if in.ProfilePicture != nil {
		set["profile_picture"] = *in.ProfilePicture
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return models.User{}, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, domain.InternalError{Msg: "password hashing failed", Err: err}
		}
		set["password_hash"] = string(hash)
	}
	if len(set) == 0 {
		return s.Users.GetByID(id)
	}
	if err := s.Users.UpdateProfile(id, set); err != nil {
		return models.User{}, err
	}
	return s.Users.GetByID(id)
}
