package postgres

import (
	"context"
	"fmt"
	"strconv"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Almacen-api/pkg/config"
)

// NewPool abre el pool de PostgreSQL y verifica la conexión con un ping.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// poolConfig traduce DBConfig a pgxpool.Config sin conectar.
func poolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 && int32(cfg.MinConns) <= pc.MaxConns {
		pc.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLife > 0 {
		pc.MaxConnLifetime = cfg.ConnMaxLife
	}
	if cfg.ConnMaxIdle > 0 {
		pc.MaxConnIdleTime = cfg.ConnMaxIdle
	}
	if cfg.LockTimeout > 0 {
		pc.ConnConfig.RuntimeParams["lock_timeout"] = strconv.FormatInt(cfg.LockTimeout.Milliseconds(), 10)
	}

	// NUMERIC <-> decimal.Decimal en todas las conexiones del pool.
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pc, nil
}
