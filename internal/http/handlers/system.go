package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	intconfig "tourism-backend/internal/config"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database not connected", nil)
		return
	}
	if err := intconfig.EnsureDB(); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database ping failed", err)
		return
	}
	var count int
	if err := intconfig.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database query failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "users_in_db": count})
}
