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

	"github.com/kipcodes/tweet-manager/internal/auth"
	"github.com/kipcodes/tweet-manager/internal/config"
	"github.com/kipcodes/tweet-manager/internal/database"
	"github.com/kipcodes/tweet-manager/internal/server"
	"github.com/kipcodes/tweet-manager/internal/session"
	"github.com/kipcodes/tweet-manager/internal/tweet"
	"github.com/kipcodes/tweet-manager/internal/twitter"
	"github.com/kipcodes/tweet-manager/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	ctx := context.Background()

	store, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	api := twitter.NewClient(cfg.TwitterAPIKey, cfg.TwitterAPISecret)
	broker := auth.NewBroker(cfg.TwitterAPIKey, cfg.TwitterAPISecret, cfg.CallbackURL, api)
	sessions := session.NewManager(store.Sessions(), cfg.SecretKey, session.DefaultTTL, !cfg.Debug)
	userService := user.NewService(store.Users())
	tweetService := tweet.NewService(api, store.Tweets())

	sessions.CleanupExpired(ctx)

	srv := server.NewServer(cfg.Port, store, sessions, broker, userService, tweetService)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
