package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourism-backend/internal/services"
)

// GET /api/admin/users
func GetUsers(c *gin.Context) {
	users, err := svc.Users.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GET /api/admin/users/:id
func GetUserByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := svc.Users.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// POST /api/admin/users
//
// Admins can seed accounts with any role, typically guides. The
// password goes through the same registration rules as self-signup;
// no token is minted for the new account.
func CreateUser(c *gin.Context) {
	var in services.RegisterInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := svc.Auth.Register(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": res.User})
}

type activeRequest struct {
	IsActive *bool `json:"is_active"`
}

// PUT /api/admin/users/:id/status
func SetUserActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in activeRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.IsActive == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "is_active is required", nil)
		return
	}
	user, err := svc.Users.SetActive(id, *in.IsActive)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DELETE /api/admin/users/:id
func DeleteUser(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := svc.Users.Delete(p, id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
