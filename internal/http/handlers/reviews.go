package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tourism-backend/internal/domain/models"
)

// POST /api/reviews (visitor)
func CreateReview(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var in models.Review
	if !BindJSONOrError(c, &in) {
		return
	}
	review, err := svc.Reviews.Create(p.UserID, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// GET /api/reviews (optional ?site_id=)
func GetReviews(c *gin.Context) {
	var siteID int64
	if raw := c.Query("site_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(c, http.StatusBadRequest, "invalid_id", "invalid site_id", err)
			return
		}
		siteID = id
	}
	reviews, err := svc.Reviews.ListApproved(siteID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
