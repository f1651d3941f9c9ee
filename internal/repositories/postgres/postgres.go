package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Connect opens a pool, checks it and makes sure the receipts schema exists.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	log.WithField("host", config.ConnConfig.Host).Info("connected to postgres")
	return pool, nil
}

func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	receiptsTableSQL := `
		CREATE TABLE IF NOT EXISTS receipts (
			order_id        VARCHAR(64) PRIMARY KEY,
			table_number    VARCHAR(32) NOT NULL,
			table_id        VARCHAR(64),
			customer_name   VARCHAR(255),
			customer_mobile VARCHAR(16),
			coupon_code     VARCHAR(32),
			items           JSONB NOT NULL,
			subtotal        NUMERIC(12,2) NOT NULL,
			discount        NUMERIC(12,2) NOT NULL,
			cgst            NUMERIC(12,2) NOT NULL,
			sgst            NUMERIC(12,2) NOT NULL,
			total           NUMERIC(12,2) NOT NULL,
			placed_at       TIMESTAMPTZ NOT NULL,
			created_at      TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_receipts_table_number ON receipts(table_number);
	`
	if _, err := pool.Exec(ctx, receiptsTableSQL); err != nil {
		return fmt.Errorf("create receipts table: %w", err)
	}
	return nil
}
