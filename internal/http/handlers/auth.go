package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var in services.RegisterInput
	if !BindJSONOrError(c, &in) {
		return
	}
	// admin accounts are provisioned via POST /api/admin/users only
	if strings.EqualFold(in.UserType, string(domain.RoleAdmin)) {
		respondError(c, http.StatusForbidden, "forbidden", "admin accounts cannot self-register", nil)
		return
	}
	res, err := svc.Auth.Register(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var in loginRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := svc.Auth.Login(in.Email, in.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/users/me
func Me(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	user, err := svc.Auth.CurrentUser(p.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// PATCH /api/users/me
func UpdateProfile(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var in services.ProfileInput
	if !BindJSONOrError(c, &in) {
		return
	}
	user, err := svc.Auth.UpdateProfile(p.UserID, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
