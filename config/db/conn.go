package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/fixitnow/logger"
)

var DB *pgxpool.Pool

// Connect opens the pool and pings it once. The pool is also kept in DB.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		logger.ErrorLogger.Error("DATABASE_URL not set")
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.ErrorLogger.Errorf("Unable to parse DATABASE_URL: %v", err)
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	start := time.Now()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		logger.ErrorLogger.Errorf("Database connection error: %v", err)
		return nil, fmt.Errorf("connect database: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.ErrorLogger.Errorf("Database unreachable: %v", err)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	DB = pool
	logger.InfoLogger.Infof("Connected to PostgreSQL pool (ping ok in %v)", time.Since(start))
	return pool, nil
}

func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
		logger.InfoLogger.Info("Disconnected from PostgreSQL.")
	}
}
