// Command server boots the message-board persistence core: it opens the
// document store, bulk-loads all five entity caches (failing fast on any
// load error), and serves health and metrics endpoints until shutdown.
// The board's request-handling layer consumes the loaded stores; it is not
// part of this binary.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/asma526/go-board-backend/internal/config"
	"github.com/asma526/go-board-backend/internal/observability"
	"github.com/asma526/go-board-backend/internal/repo"
	"github.com/asma526/go-board-backend/internal/services"
	"github.com/asma526/go-board-backend/internal/store"
	"github.com/asma526/go-board-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	logger := log.With().Str("service", "go-board-backend").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		logger.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	client, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("open document store failed")
	}
	defer client.Close()

	persist := repo.New(client)

	users := services.NewUserStore(persist, &logger)
	conversations := services.NewConversationStore(persist, &logger)
	conversations.TitleMaxLen = cfg.TitleMaxLen
	hashtags := services.NewHashtagStore(persist, &logger)
	mentions := services.NewMentionStore(persist, &logger)
	messages := services.NewMessageStore(persist, services.NewIndexMaintainer(hashtags, mentions), &logger)
	messages.MaxContentRunes = cfg.MaxContentRunes

	// Bulk load every cache before serving anything. A single malformed
	// document anywhere fails the process.
	for _, load := range []func(context.Context) error{
		users.Load,
		conversations.Load,
		hashtags.Load,
		mentions.Load,
		messages.Load,
	} {
		if err := load(ctx); err != nil {
			logger.Fatal().Err(err).Msg("bulk load failed")
		}
	}
	logger.Info().
		Int("users", users.Count()).
		Int("conversations", conversations.Count()).
		Int("messages", messages.Count()).
		Int("hashtags", hashtags.Count()).
		Int("mentions", mentions.Count()).
		Msg("caches loaded")

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.OTEL.Enabled {
		r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("ops server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("ops server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("ops server shutdown failed")
	}
}
