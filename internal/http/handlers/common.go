package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/http/middleware"
	"tourism-backend/internal/services"
)

// Services bundles everything the handlers call into.
type Services struct {
	Auth          services.AuthService
	Users         services.UserService
	Sites         services.SiteService
	Requests      services.RequestService
	Payments      services.PaymentService
	Notifications services.NotificationService
	Reviews       services.ReviewService
	Receipts      services.ReceiptService
	Files         services.FileService
}

var svc Services

// Setup wires the handler package to its services. Call once at boot.
func Setup(s Services) {
	svc = s
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "request body is not valid JSON", err)
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "invalid "+name, err)
		return 0, false
	}
	return id, true
}

func mustPrincipal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return domain.Principal{}, false
	}
	return p, true
}
