package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/R3almCollectibles/session-gateway/internal/api"
	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
	"github.com/R3almCollectibles/session-gateway/internal/core/service"
	"github.com/R3almCollectibles/session-gateway/internal/infrastructure/backend/embedded"
	"github.com/R3almCollectibles/session-gateway/internal/infrastructure/backend/hosted"
	"github.com/R3almCollectibles/session-gateway/internal/infrastructure/config"
	boltdb "github.com/R3almCollectibles/session-gateway/internal/infrastructure/db/bolt"
	mongodb "github.com/R3almCollectibles/session-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/R3almCollectibles/session-gateway/internal/infrastructure/db/redis"
	"github.com/R3almCollectibles/session-gateway/internal/infrastructure/notify"
	"github.com/R3almCollectibles/session-gateway/internal/infrastructure/queue"
	"github.com/R3almCollectibles/session-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = rdb.Close() }()

	demoStore, err := boltdb.Open(cfg.Bolt.Path, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Bolt.Path).Msg("demo store open failed")
	}
	defer func() { _ = demoStore.Close() }()

	profiles := mongodb.NewProfileRepository(db)

	var backend ports.AuthBackend
	switch cfg.Auth.Mode {
	case config.AuthModeHosted:
		client := hosted.NewClient(hosted.Config{BaseURL: cfg.Auth.BaseURL, APIKey: cfg.Auth.APIKey}, log)
		go client.Watch(ctx, cfg.Auth.PollInterval)
		backend = client
		log.Info().Str("base_url", cfg.Auth.BaseURL).Msg("using hosted auth backend")
	default:
		backend = embedded.New(mongodb.NewCredentialRepository(db), cfg.TokenTTL, log)
		log.Info().Msg("using embedded auth backend")
	}

	manager := service.NewManager(service.Deps{
		Backend:  backend,
		Profiles: profiles,
		Demo:     demoStore,
		Cache:    redisdb.NewSessionCache(rdb, cfg.TokenTTL),
		SeedFlag: redisdb.NewSeedFlag(rdb),
		Seed:     demoProfileSeeder(profiles),
		Notifier: notify.NewMemoryNotifier(log),
		Log:      log,
	}, cfg.JWTSecret, cfg.TokenTTL)
	defer manager.Close()

	dispatcher := queue.NewDispatcher(0, manager, log)
	dispatcher.Start(ctx)
	backend.Subscribe(dispatcher.Enqueue)

	e := api.NewRouter(manager, db, rdb, cfg.JWTSecret, log)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("session gateway listening")
	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped unexpectedly")
	}
}

// demoProfileSeeder makes sure a demo persona has a matching profile row so
// the rest of the marketplace can resolve it like any other account.
func demoProfileSeeder(profiles ports.ProfileRepository) service.SeedFunc {
	return func(ctx context.Context, _ string, persona domain.Role) error {
		p, ok := domain.DemoPersona(string(persona))
		if !ok {
			return nil
		}
		profile := &ports.Profile{
			ID:            p.ID,
			Email:         p.Email,
			Name:          p.Name,
			AvatarURL:     p.AvatarURL,
			WalletAddress: p.WalletAddress,
			RoleTag:       p.RoleTag,
			IsAdmin:       p.IsAdmin,
			CreatedAt:     time.Now().UTC(),
		}
		if err := profiles.Insert(ctx, profile); err != nil && !errors.Is(err, domain.ErrAlreadyRegistered) {
			return err
		}
		return nil
	}
}
