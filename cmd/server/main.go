package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bhuumii/Medium/internal/auth"
	"github.com/bhuumii/Medium/internal/cache"
	"github.com/bhuumii/Medium/internal/config"
	"github.com/bhuumii/Medium/internal/domain"
	"github.com/bhuumii/Medium/internal/events"
	"github.com/bhuumii/Medium/internal/httpserver"
	"github.com/bhuumii/Medium/internal/live"
	"github.com/bhuumii/Medium/internal/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := godotenv.Load(); err != nil {
		logger.Info(".env file not found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repository implements all four domain repository interfaces.
	repo, err := sqlite.NewRepository(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("create repository: %w", err)
	}
	defer repo.Close()
	logger.Info("connected to database", "path", cfg.DatabasePath)

	// Optional collaborators: the feed cache and the NATS event publisher
	// are wired only when configured.
	var feedCache domain.FeedCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return fmt.Errorf("create feed cache: %w", err)
		}
		defer redisCache.Close()
		feedCache = redisCache
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
	}

	var natsPublisher domain.EventPublisher
	if cfg.NATSURL != "" {
		nats, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("create event publisher: %w", err)
		}
		defer nats.Close()
		natsPublisher = nats
		logger.Info("connected to nats", "url", cfg.NATSURL)
	}

	hub := live.NewHub(logger)
	publisher := events.NewMulti(natsPublisher, hub)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokens := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)

	blog := domain.NewBlogService(repo, repo, repo, repo, hasher, publisher, feedCache, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	server := httpserver.NewServer(cfg, blog, tokens, hub, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server exited with error", "error", err)
		}
	}()

	logger.Info("server started", "port", cfg.Port)

	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)
	cancel()

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("error shutting down http server", "error", err)
	}

	return nil
}
