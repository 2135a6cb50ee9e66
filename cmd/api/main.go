// Command api serves the mood journal HTTP API.
//
// @title                       Mood Journal API
// @version                     1.0
// @description                 Personal mood check-ins with per-user statistics.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mindmax/mood-journal/internal/api"
	"github.com/mindmax/mood-journal/internal/core/ports"
	"github.com/mindmax/mood-journal/internal/core/service"
	"github.com/mindmax/mood-journal/internal/infrastructure/db/filestore"
	redisstore "github.com/mindmax/mood-journal/internal/infrastructure/db/redis"
	"github.com/mindmax/mood-journal/internal/infrastructure/http/handlers"
	"github.com/mindmax/mood-journal/internal/infrastructure/queue"
	"github.com/mindmax/mood-journal/internal/pkg/config"
	"github.com/mindmax/mood-journal/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "mood-journal",
	})

	if err := run(cfg); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UsesDefaultSecret() && !cfg.IsDevelopment() {
		log.Warn().Msg("JWT_SECRET is unset; tokens are signed with the development default")
	}

	store, err := filestore.Open(filestore.Config{Dir: cfg.Storage.DataDir})
	if err != nil {
		return err
	}
	log.Info().Str("dir", store.Dir()).Msg("file store ready")

	ready := map[string]handlers.Check{"datastore": handlers.StoreCheck(store.Ping)}

	var idempotency ports.IdempotencyStore
	rcfg := redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if rcfg.Enabled() {
		rdb, err := redisstore.Connect(ctx, rcfg)
		if err != nil {
			return err
		}
		defer rdb.Close()
		idempotency = redisstore.NewIdempotencyStore(rdb)
		ready["redis"] = handlers.RedisCheck(rdb)
		log.Info().Str("addr", rcfg.Addr).Msg("redis idempotency store enabled")
	}

	pool := queue.NewHashPool(cfg.Auth.HashWorkers, cfg.Auth.BcryptCost, log.With().Str("component", "hash_pool").Logger())
	// Workers outlive the signal context so in-flight logins finish during shutdown.
	pool.Start(context.Background())
	defer pool.Stop()

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	users := store.Users()

	e := api.NewRouter(api.Deps{
		Logger:      log,
		Auth:        service.NewAuthService(users, pool, tokens, log),
		Tokens:      tokens,
		Users:       service.NewUserService(users),
		CheckIns:    service.NewCheckInService(store.CheckIns(), idempotency, log),
		Ready:       ready,
		APIPrefix:   cfg.APIPrefix,
		BodyLimit:   cfg.BodyLimit,
		CORSOrigins: cfg.CORSOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := net.JoinHostPort("", cfg.Port)
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
