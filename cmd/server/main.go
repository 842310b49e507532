package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/triplec/contact-api/internal/config"
	"github.com/triplec/contact-api/internal/handler"
	"github.com/triplec/contact-api/internal/logging"
	"github.com/triplec/contact-api/internal/mail"
	"github.com/triplec/contact-api/internal/ratelimit"
	"github.com/triplec/contact-api/internal/repository"
	"github.com/triplec/contact-api/internal/service"
	"github.com/triplec/contact-api/pkg/auth"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.Debug)

	db, err := repository.Open(context.Background(), cfg.DatabasePath)
	if err != nil {
		logging.Fatal("failed to open database", "error", err, "path", cfg.DatabasePath)
	}
	defer db.Close()

	submissionRepo := repository.NewSQLiteSubmissionRepository(db)
	limiter := ratelimit.New(cfg.RateLimitRequests,
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second)

	dispatcher, err := mail.NewDispatcher(cfg)
	if err != nil {
		logging.Fatal("failed to initialize mail dispatcher", "error", err)
	}

	submissionService := service.NewSubmissionService(submissionRepo, limiter, dispatcher)

	h := handler.New(db, cfg.AllowedOrigins)
	submissionHandler := handler.NewSubmissionHandler(submissionService, limiter.RetryAfter)

	adminOnly := auth.RequireAPIKey(cfg.AdminAPIKey)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("POST /api/contact", submissionHandler.Submit)

	// Admin endpoints (X-API-Key required)
	mux.Handle("GET /api/submissions", adminOnly(http.HandlerFunc(submissionHandler.List)))
	mux.Handle("GET /api/submissions/count", adminOnly(http.HandlerFunc(submissionHandler.Count)))
	mux.Handle("GET /api/submissions/{id}", adminOnly(http.HandlerFunc(submissionHandler.Get)))
	mux.Handle("PATCH /api/submissions/{id}/status", adminOnly(http.HandlerFunc(submissionHandler.UpdateStatus)))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	// Let in-flight notification emails finish before exiting.
	dispatcher.Close()
}
