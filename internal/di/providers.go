package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sandeepkv93/dexnote-client/internal/api"
	"github.com/sandeepkv93/dexnote-client/internal/config"
	"github.com/sandeepkv93/dexnote-client/internal/guard"
	"github.com/sandeepkv93/dexnote-client/internal/observability"
	"github.com/sandeepkv93/dexnote-client/internal/repository"
	"github.com/sandeepkv93/dexnote-client/internal/service"
	"github.com/sandeepkv93/dexnote-client/internal/view"
)

func provideLogger(rt *observability.Runtime) *slog.Logger {
	if rt == nil || rt.Logger == nil {
		return slog.Default()
	}
	return rt.Logger
}

func provideAPIClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.APIURL, cfg.HTTPTimeout)
}

func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := repository.Open(cfg.DatabaseDriver(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = repository.Close(db) }, nil
}

// provideRedisClient only dials when the token store lives in redis.
func provideRedisClient(cfg *config.Config) (redis.UniversalClient, func(), error) {
	if cfg.TokenStore != config.TokenStoreRedis {
		return nil, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return client, func() { _ = client.Close() }, nil
}

func provideTokenStore(cfg *config.Config, settings repository.SettingRepository, rdb redis.UniversalClient) (service.TokenStore, error) {
	switch cfg.TokenStore {
	case config.TokenStoreFile:
		return service.NewFileTokenStore(cfg.TokenFile), nil
	case config.TokenStoreSQLite, config.TokenStorePostgres:
		return service.NewSettingTokenStore(settings, cfg.TokenStore), nil
	case config.TokenStoreRedis:
		return service.NewRedisTokenStore(rdb, cfg.RedisPrefix), nil
	case config.TokenStoreMemory:
		return service.NewInMemoryTokenStore(), nil
	default:
		return nil, fmt.Errorf("unsupported token store %q", cfg.TokenStore)
	}
}

func provideSessionStore(ctx context.Context, tokens service.TokenStore, resolver service.IdentityResolver, logger *slog.Logger) *service.SessionStore {
	return service.NewSessionStore(ctx, tokens, resolver, logger)
}

func provideRouteGuard() *guard.RouteGuard {
	return guard.New()
}

func provideRenderer() *view.Renderer {
	return view.NewRenderer(0)
}
