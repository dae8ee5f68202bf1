package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/http/middleware"
	"tourism-backend/internal/utils"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	payload := gin.H{
		"error": message,
		"code":  code,
	}
	if details != nil {
		if err, ok := details.(error); ok {
			payload["details"] = err.Error()
		} else {
			payload["details"] = details
		}
	}
	if reqID := middleware.GetRequestID(c); reqID != "" {
		payload["request_id"] = reqID
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses. Internal
// detail never leaks to the client; the request id links the response
// to the server log.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsPrecondition(err):
		respondError(c, http.StatusConflict, "precondition_failed", err.Error(), nil)
	case domain.IsGateway(err):
		utils.Logger().Error("payment gateway error",
			zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		respondError(c, http.StatusBadGateway, "gateway_error", "payment gateway is unavailable, try again later", nil)
	default:
		utils.Logger().Error("unhandled error",
			zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
