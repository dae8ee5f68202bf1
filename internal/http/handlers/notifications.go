package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/notifications
func GetNotifications(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	notifications, err := svc.Notifications.ListForUser(p.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// PATCH /api/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := svc.Notifications.MarkRead(id, p.UserID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}
