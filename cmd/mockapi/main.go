package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"immo-client/internal/apitest"
	"immo-client/internal/config"
	"immo-client/internal/logger"
)

const (
	demoEmail    = "demo@immo.test"
	demoPassword = "demo-password"
)

func main() {
	cfg, err := config.LoadMockAPI()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logHandler := logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: logger.ParseLevel(cfg.LogLevel),
	})
	slog.SetDefault(slog.New(logHandler))

	fake := apitest.New(
		apitest.WithSecret(cfg.JWTSecret),
		apitest.WithBcryptCost(bcrypt.DefaultCost),
		apitest.WithCORSOrigins(cfg.CORSOrigins),
		apitest.WithAuthRateLimit(10),
	)
	demo := fake.AddUser(demoEmail, demoPassword, "particulier", true)
	slog.Info("demo account ready", "email", demo.Email, "role", demo.Role)

	r := chi.NewRouter()
	r.Mount("/api", fake)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("mock api starting", "addr", server.Addr, "base", "/api")
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("mock api failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("mock api stopped")
}
