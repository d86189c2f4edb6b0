package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"garage/internal/auth"
	"garage/internal/config"
	"garage/internal/domain"
	"garage/internal/observability/logging"
	"garage/internal/observability/metrics"
	"garage/internal/service"
	"garage/internal/storage"
	"garage/internal/store"
	httpx "garage/internal/transport/http"
	"garage/pkg/db"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "garage",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	cfg := config.Load()
	metrics.MustRegister()

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(&domain.User{}, &domain.Car{}, &domain.CarLink{}); err != nil {
		logger.Error("automigrate", "error", err)
		os.Exit(1)
	}

	blobs, err := storage.NewLocalStore(cfg.StorageRoot)
	if err != nil {
		logger.Error("blob store init", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)
	hasher := service.NewCredentialHasher()
	signer := auth.NewSigner(auth.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		SigningKey: []byte(cfg.SigningKey),
	})

	images := service.NewImageService(st, blobs, cfg.PublicBaseURL)
	authSvc := service.NewAuthService(st, hasher, signer)
	linkSvc := service.NewLinkService(st, hasher, images)
	garageSvc := service.NewGarageService(st, images)

	handler := httpx.NewRouter(httpx.RouterConfig{
		CORSOrigins: strings.Split(cfg.CORSOrigins, ","),
		RateLimit:   cfg.RateLimit,
		StorageRoot: cfg.StorageRoot,
	}, authSvc, linkSvc, garageSvc, images, signer)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("garage service listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
