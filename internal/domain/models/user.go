package models

// User is an account row; PasswordHash never leaves the server.
type User struct {
	ID             int64  `json:"user_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	PasswordHash   string `json:"-"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	UserType       string `json:"user_type"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at,omitempty"`
}
