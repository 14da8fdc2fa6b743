package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tunaaoguzhann/selfie-relay/core"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger = newLogger(cfg)
	log.Logger = logger

	opts, err := cfg.options()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load allowlist")
	}
	relay, err := core.NewRelayWithOptions(opts, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init relay")
	}

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = relay.Ping(pingCtx)
	cancelPing()
	if err != nil {
		logger.Fatal().Err(err).Str("redis_addr", cfg.RedisAddr).Msg("redis ping failed")
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Str("mode", cfg.Mode).
		Dur("ttl", cfg.TTL()).
		Bool("allowlist_open", relay.Allowlist().Open()).
		Int("allowlist_size", relay.Allowlist().Len()).
		Bool("redis", cfg.RedisAddr != "").
		Msg("starting selfie relay")

	m := newMetrics(relay)
	handler := newRouter(relay, serviceInfo{
		TTL:         cfg.TTL(),
		CORSOrigins: core.ParseAllowlist(cfg.CORSOrigins),
	}, m, logger.With().Str("component", "http").Logger())

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(cfg *config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Environment == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	return logger
}
