package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	intconfig "tourism-backend/internal/config"
	"tourism-backend/internal/domain"
	h "tourism-backend/internal/http/handlers"
	"tourism-backend/internal/http/middleware"
	"tourism-backend/internal/services"
	"tourism-backend/internal/utils"
)

// NewRouter mounts the full API surface. Handlers must be wired with
// handlers.Setup before the router serves traffic.
func NewRouter(cfg intconfig.Config, auth services.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Metrics(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Logger().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authn := middleware.Authenticate(auth)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)

		users := api.Group("/users", authn)
		users.GET("/me", h.Me)
		users.PATCH("/me", h.UpdateProfile)

		admin := api.Group("/admin", authn, adminOnly)
		admin.GET("/users", h.GetUsers)
		admin.POST("/users", h.CreateUser)
		admin.GET("/users/:id", h.GetUserByID)
		admin.PUT("/users/:id/status", h.SetUserActive)
		admin.DELETE("/users/:id", h.DeleteUser)

		sites := api.Group("/sites")
		sites.GET("", h.GetSites)
		sites.GET("/:id", h.GetSiteByID)
		sites.POST("", authn, middleware.RequireRoles(domain.RoleAdmin, domain.RoleResearcher), h.CreateSite)
		sites.PATCH("/:id", authn, middleware.RequireRoles(domain.RoleAdmin, domain.RoleResearcher), h.UpdateSite)
		sites.PATCH("/:id/approve", authn, adminOnly, h.ApproveSite)
		sites.DELETE("/:id", authn, adminOnly, h.DeleteSite)

		requests := api.Group("/requests", authn)
		requests.POST("", h.CreateGuideRequest)
		requests.GET("/my", h.GetMyRequests)
		requests.GET("", middleware.RequireRoles(domain.RoleAdmin, domain.RoleGuide), h.GetAllRequests)
		requests.GET("/:id", h.GetRequestByID)
		requests.PATCH("/:id/approve", adminOnly, h.ApproveRequest)
		requests.PATCH("/:id/reject", adminOnly, h.RejectRequest)
		requests.PATCH("/:id/assign-guide", adminOnly, h.AssignGuide)
		requests.PATCH("/:id/status", middleware.RequireRoles(domain.RoleAdmin, domain.RoleGuide), h.UpdateRequestStatus)

		payments := api.Group("/payments")
		payments.POST("/chapa/create", authn, h.InitializePayment)
		payments.GET("/chapa/verify/:reference", h.VerifyPaymentByReference)
		payments.GET("", authn, adminOnly, h.GetPayments)
		payments.PATCH("/:id/verify", authn, adminOnly, h.VerifyPaymentByID)
		payments.POST("/proof", authn, h.UploadPaymentProof)
		payments.POST("/:id/proof", authn, h.UploadPaymentProof)
		payments.GET("/:id/receipt", authn, h.GetPaymentReceipt)

		notifications := api.Group("/notifications", authn)
		notifications.GET("", h.GetNotifications)
		notifications.PATCH("/:id/read", h.MarkNotificationRead)

		reviews := api.Group("/reviews")
		reviews.GET("", h.GetReviews)
		reviews.POST("", authn, h.CreateReview)
	}

	return r
}
