package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/pkordes/garage-inventory/internal/config"
	"github.com/pkordes/garage-inventory/internal/repo"
	"github.com/pkordes/garage-inventory/migrations"
)

// openGarageStore connects the configured garage backend and returns its repo
// together with a close func.
func openGarageStore(ctx context.Context, cfg config.Config) (repo.GarageRepo, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		slog.Info("redis connection established", "addr", cfg.RedisAddr)
		return repo.NewRedisGarageRepo(client), func() { _ = client.Close() }, nil
	default:
		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		slog.Info("database connection established")

		db := stdlib.OpenDBFromPool(pool)
		err = migrate(ctx, goose.DialectPostgres, db, migrations.FS)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo.NewGarageRepo(pool), pool.Close, nil
	}
}

// openCatalog opens the SQLite catalog file and creates any missing tables.
func openCatalog(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := migrate(ctx, goose.DialectSQLite3, db, migrations.Catalog()); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("catalog opened", "path", path)
	return db, nil
}

func migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("create %s migration provider: %w", dialect, err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply %s migrations: %w", dialect, err)
	}
	for _, res := range results {
		slog.Info("migration applied", "dialect", string(dialect), "version", res.Source.Version)
	}
	return nil
}
