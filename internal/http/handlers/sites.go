package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourism-backend/internal/domain/models"
)

// GET /api/sites
func GetSites(c *gin.Context) {
	sites, err := svc.Sites.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

// GET /api/sites/:id
func GetSiteByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	site, err := svc.Sites.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"site": site})
}

// POST /api/sites (admin, researcher)
func CreateSite(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var in models.SiteInput
	if !BindJSONOrError(c, &in) {
		return
	}
	site, err := svc.Sites.Create(p, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"site": site})
}

// PATCH /api/sites/:id (admin, owning researcher)
func UpdateSite(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.SiteInput
	if !BindJSONOrError(c, &in) {
		return
	}
	site, err := svc.Sites.Update(p, id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"site": site})
}

// PATCH /api/sites/:id/approve (admin)
func ApproveSite(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	site, err := svc.Sites.Approve(p, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"site": site})
}

// DELETE /api/sites/:id (admin)
func DeleteSite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := svc.Sites.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "site deleted"})
}
