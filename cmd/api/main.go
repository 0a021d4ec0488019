package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nikan-clinic/frontdesk/internal/config"
	"github.com/nikan-clinic/frontdesk/internal/handler"
	apihttp "github.com/nikan-clinic/frontdesk/internal/http"
	"github.com/nikan-clinic/frontdesk/internal/ledger"
	"github.com/nikan-clinic/frontdesk/internal/logging"
	"github.com/nikan-clinic/frontdesk/internal/notify"
	"github.com/nikan-clinic/frontdesk/internal/repository"
	"github.com/nikan-clinic/frontdesk/internal/service"
	"github.com/nikan-clinic/frontdesk/internal/service/booking"
	"github.com/nikan-clinic/frontdesk/internal/service/report"
	"github.com/nikan-clinic/frontdesk/internal/storage"
)

func main() {
	// Local development only; in production the environment is already set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("frontdesk-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	var notifier ledger.Notifier
	if cfg.RealtimeWebhookURL != "" {
		notifier = notify.NewWebhook(
			cfg.RealtimeWebhookURL,
			cfg.RealtimeSecret,
			time.Duration(cfg.RealtimeTimeoutS)*time.Second,
		)
	} else {
		slog.Warn("realtime webhook not configured, snapshots will not be published")
	}

	var store *storage.CloudinaryStore
	if cfg.CloudinaryCloudName != "" {
		store, err = storage.NewCloudinaryStore(
			cfg.CloudinaryCloudName,
			cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret,
			cfg.ReceiptFolder,
			cfg.DocumentFolder,
		)
		if err != nil {
			slog.Error("failed to init cloudinary", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("cloudinary not configured, uploads will fail")
	}

	bookingSvc := booking.NewService(bookingRepo, paymentRepo, catalogRepo, notifier, db)
	userSvc := service.NewUserService(userRepo)
	reportSvc := report.NewService(reportRepo)

	jwtExpiry := time.Duration(cfg.JWTExpiryH) * time.Hour

	router := apihttp.New(apihttp.RouterDeps{
		Health:         handler.NewHealthHandler(db),
		Auth:           handler.NewAuthHandler(userRepo, cfg.JWTSecret, jwtExpiry),
		Users:          handler.NewUserHandler(userSvc),
		Bookings:       handler.NewBookingHandler(bookingSvc),
		Payments:       handler.NewPaymentHandler(bookingSvc),
		Catalog:        handler.NewCatalogHandler(catalogRepo),
		Reports:        handler.NewReportHandler(reportSvc),
		Uploads:        handler.NewUploadHandler(store, bookingSvc),
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Idempotency:    idempotencyRepo,
	})

	go cleanIdempotencyCache(idempotencyRepo)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func cleanIdempotencyCache(repo *repository.IdempotencyRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		n, err := repo.CleanExpired(context.Background())
		if err != nil {
			slog.Error("failed to clean idempotency cache", "error", err)
			continue
		}
		if n > 0 {
			slog.Info("cleaned expired idempotency entries", "count", n)
		}
	}
}
