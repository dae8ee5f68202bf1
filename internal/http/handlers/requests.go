package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourism-backend/internal/domain/models"
)

// POST /api/requests (visitor)
func CreateGuideRequest(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var in models.GuideRequestInput
	if !BindJSONOrError(c, &in) {
		return
	}
	req, err := svc.Requests.Create(p.UserID, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// GET /api/requests/my (visitor)
func GetMyRequests(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	reqs, err := svc.Requests.ListForVisitor(p.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

// GET /api/requests (admin sees all, guide sees own queue)
func GetAllRequests(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	reqs, err := svc.Requests.ListAll(p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

// GET /api/requests/:id
func GetRequestByID(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	req, err := svc.Requests.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !p.IsAdmin() && req.VisitorID != p.UserID && req.AssignedGuideID != p.UserID {
		respondError(c, http.StatusForbidden, "forbidden", "not your request", nil)
		return
	}
	resp := gin.H{"request": req, "payment_confirmed": svc.Payments.HasConfirmedPayment(id)}
	if visit, err := svc.Requests.VisitForRequest(id); err == nil {
		resp["visit"] = visit
	}
	c.JSON(http.StatusOK, resp)
}

// PATCH /api/requests/:id/approve (admin)
func ApproveRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	req, err := svc.Requests.Approve(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// PATCH /api/requests/:id/reject (admin)
func RejectRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in rejectRequest
	if c.Request.Body != nil {
		_ = c.ShouldBindJSON(&in) // reason is optional
	}
	req, err := svc.Requests.Reject(id, in.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

type assignRequest struct {
	GuideID int64 `json:"guide_id"`
}

// PATCH /api/requests/:id/assign-guide (admin)
func AssignGuide(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in assignRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	req, err := svc.Requests.AssignGuide(id, in.GuideID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

type statusRequest struct {
	Status string `json:"status"`
}

// PATCH /api/requests/:id/status (admin, assigned guide)
func UpdateRequestStatus(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in statusRequest
	if !BindJSONOrError(c, &in) {
		return
	}

	if p.IsGuide() {
		current, err := svc.Requests.GetByID(id)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		if current.AssignedGuideID != p.UserID {
			respondError(c, http.StatusForbidden, "forbidden", "not your assignment", nil)
			return
		}
		if in.Status != "accepted_by_guide" && in.Status != "rejected_by_guide" && in.Status != "completed" {
			respondError(c, http.StatusForbidden, "forbidden", "guides may only accept, decline or complete an assignment", nil)
			return
		}
	}

	req, err := svc.Requests.UpdateStatus(id, in.Status, p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}
