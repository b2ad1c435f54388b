package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/fixitnow/logger"
)

//go:embed schema.sql
var schema string

// Migrate applies the idempotent schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.ErrorLogger.Errorf("Schema migration failed: %v", err)
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.InfoLogger.Info("Database schema is up to date")
	return nil
}
