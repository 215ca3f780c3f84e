package database

import (
	"context"
	"fmt"
	"time"

	"edulearn/internal/config"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewPool creates a new PostgreSQL connection pool.
// Every connection maps NUMERIC to decimal.Decimal.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	return newPool(ctx, cfg.ConnectionString(), poolSettings{
		maxConns:        int32(cfg.MaxConnections),
		minConns:        int32(cfg.MinConnections),
		maxConnLifetime: cfg.MaxConnLifetime,
	}, logger.With().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Logger())
}

type poolSettings struct {
	maxConns        int32
	minConns        int32
	maxConnLifetime time.Duration
}

// NewPoolFromURL creates a pool from a connection string with default sizing.
// Tests and scripts use it against throwaway databases.
func NewPoolFromURL(ctx context.Context, connString string, logger zerolog.Logger) (*pgxpool.Pool, error) {
	return newPool(ctx, connString, poolSettings{}, logger)
}

func newPool(ctx context.Context, connString string, settings poolSettings, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if settings.maxConns > 0 {
		poolConfig.MaxConns = settings.maxConns
	}
	if settings.minConns > 0 {
		poolConfig.MinConns = settings.minConns
	}
	if settings.maxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = settings.maxConnLifetime
	}
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	logger.Info().
		Int32("max_connections", poolConfig.MaxConns).
		Int32("min_connections", poolConfig.MinConns).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("database connection pool created successfully")

	return pool, nil
}
