package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	intconfig "tourism-backend/internal/config"
	"tourism-backend/internal/db"
	"tourism-backend/internal/gateway"
	api "tourism-backend/internal/http"
	"tourism-backend/internal/http/handlers"
	"tourism-backend/internal/outbox"
	"tourism-backend/internal/repositories"
	"tourism-backend/internal/services"
	"tourism-backend/internal/utils"
)

func main() {
	cfg := intconfig.LoadConfig()
	utils.InitLogger()
	log := utils.Logger()
	defer log.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if intconfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	conn := intconfig.ConnectDB()
	defer intconfig.CloseDB()

	if cfg.RunMigrations {
		if err := db.Migrate(conn); err != nil {
			log.Fatal("migrations failed", zap.Error(err))
		}
	}

	userRepo := repositories.UserRepository{DB: conn}
	siteRepo := repositories.SiteRepository{DB: conn}
	requestRepo := repositories.RequestRepository{DB: conn}
	paymentRepo := repositories.PaymentRepository{DB: conn}
	visitRepo := repositories.VisitRepository{DB: conn}
	notificationRepo := repositories.NotificationRepository{DB: conn}
	outboxRepo := repositories.OutboxRepository{DB: conn}
	reviewRepo := repositories.ReviewRepository{DB: conn}

	chapa := gateway.NewChapaClient(cfg.ChapaBaseURL, cfg.ChapaSecret)
	if !chapa.IsConfigured() {
		log.Warn("CHAPA_SECRET_KEY not set; payments run in degraded mode")
	}

	authSvc := services.AuthService{Users: userRepo, JWTSecret: []byte(cfg.JWTSecret)}
	notifySvc := services.NotificationService{Notifications: notificationRepo, Users: userRepo}

	handlers.Setup(handlers.Services{
		Auth:  authSvc,
		Users: services.UserService{DB: conn, Users: userRepo, Outbox: outboxRepo},
		Sites: services.SiteService{DB: conn, Sites: siteRepo, Outbox: outboxRepo},
		Requests: services.RequestService{
			DB: conn, Requests: requestRepo, Payments: paymentRepo,
			Visits: visitRepo, Outbox: outboxRepo,
		},
		Payments: services.PaymentService{
			DB: conn, Payments: paymentRepo, Requests: requestRepo,
			Outbox: outboxRepo, Gateway: chapa,
			CallbackBase: cfg.APIURL, ReturnURL: cfg.AppURL,
		},
		Notifications: notifySvc,
		Reviews:       services.ReviewService{Reviews: reviewRepo, Sites: siteRepo},
		Receipts:      services.ReceiptService{Payments: paymentRepo, Requests: requestRepo},
		Files:         services.FileService{BaseDir: cfg.UploadDir, MaxSize: cfg.MaxUploadSize},
	})

	dispatcher := &outbox.Dispatcher{
		DB:       conn,
		Outbox:   outboxRepo,
		Notifier: notifySvc,
		Interval: time.Duration(cfg.OutboxPollMS) * time.Millisecond,
	}
	dispatchCtx, stopDispatcher := context.WithCancel(context.Background())
	go dispatcher.Run(dispatchCtx)

	r := api.NewRouter(cfg, authSvc)

	srv := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.AppAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	stopDispatcher()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
