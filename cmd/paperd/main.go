package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	api "github.com/mind-engage/mindengage-qpaper/internal/api/http"
	"github.com/mind-engage/mindengage-qpaper/internal/app"
	auth "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/config"
	"github.com/mind-engage/mindengage-qpaper/internal/export"
	"github.com/mind-engage/mindengage-qpaper/internal/logging"
	"github.com/mind-engage/mindengage-qpaper/internal/metrics"
	"github.com/mind-engage/mindengage-qpaper/internal/paper"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
	"github.com/mind-engage/mindengage-qpaper/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// --- Stores ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	users := auth.NewUserStore(a.DB, 0)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal("ensure admin", zap.Error(err))
		}
	}

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		logger.Fatal("blob store", zap.Error(err))
	}
	pres, err := export.LoadPresentation(cfg.PresentationFile)
	if err != nil {
		logger.Fatal("presentation defaults", zap.Error(err))
	}

	// --- Services ---
	reg := metrics.NewRegistry()
	rec := metrics.NewRecorder(reg)

	questions := question.NewService(a.Questions, a.Events, rec, logger.Named("questions"))
	papers := paper.NewService(a.Questions, paper.NewMatcher(paper.RandomSelector{}), paper.Options{
		Limits: paper.Limits{
			MaxBuckets:     cfg.MaxBuckets,
			MaxBucketCount: cfg.MaxBucketCount,
			StrictTotal:    cfg.StrictTotalMarks,
		},
		Events:  a.Events,
		Metrics: rec,
		Logger:  logger.Named("paper"),
	})

	// --- Router ---
	r := api.NewRouter(api.Deps{
		Auth:               auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTL),
		Users:              users,
		Questions:          questions,
		Papers:             papers,
		Exporter:           &api.Exporter{Blobs: bs, Defaults: pres, Log: logger.Named("export")},
		Metrics:            metrics.Handler(reg),
		Log:                logger.Named("http"),
		CORSOrigins:        cfg.CORSOrigins,
		RequestTimeout:     cfg.RequestTimeout,
		EnableRegistration: cfg.EnableRegistration,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("mode", string(cfg.Mode)),
			zap.String("db", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdown); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}
