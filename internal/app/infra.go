package app

import (
	"context"
	"database/sql"

	"gamevault/internal/config"
	"gamevault/internal/db"
	"gamevault/internal/kvstore"
	"gamevault/internal/logger"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB *db.DB
	KV kvstore.Store
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, sqlDB); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	kv, err := kvstore.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	logger.Info("key-value store ready", nil)

	return &Infra{
		DB: &db.DB{DB: sqlDB},
		KV: kv,
	}, nil
}
