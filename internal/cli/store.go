package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/aretw0/hfsm/pkg/adapters/memory"
	"github.com/aretw0/hfsm/pkg/adapters/redis"
	"github.com/aretw0/hfsm/pkg/persistence/middleware"
	"github.com/aretw0/hfsm/pkg/ports"
)

// OpenStore picks the snapshot store for cfg: Redis when RedisAddr is set,
// the in-memory store otherwise, wrapped by the configured middlewares. The
// returned func releases the store.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (ports.SnapshotStore, func() error, error) {
	mws, err := storeMiddlewares(cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.RedisAddr == "" {
		logger.Debug("using in-memory snapshot store")
		return middleware.Chain(memory.NewStore(), mws...), func() error { return nil }, nil
	}

	var opts []redis.Option
	if cfg.SnapshotTTL > 0 {
		opts = append(opts, redis.WithTTL(cfg.SnapshotTTL))
	}
	store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("using redis snapshot store", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return middleware.Chain(store, mws...), store.Close, nil
}

func storeMiddlewares(cfg Config) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.ExcludeValues) > 0 {
		mw, err := middleware.NewExcludeMiddleware(cfg.ExcludeValues)
		if err != nil {
			return nil, fmt.Errorf("HFSM_EXCLUDE_VALUES: %w", err)
		}
		mws = append(mws, mw)
	}
	if cfg.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("HFSM_ENCRYPTION_KEY: %w", err)
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, fmt.Errorf("HFSM_ENCRYPTION_KEY: %w", err)
		}
		mws = append(mws, mw)
	}
	return mws, nil
}
