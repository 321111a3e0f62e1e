// Package postgres reads affiliate rules from the catalog's PostgreSQL
// database.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/setupscatalog/linkengine/internal/domain"
)

const listActiveQuery = `
SELECT store_key, store_name, domains, affiliate_type,
       affiliate_param, affiliate_code, redirect_template, is_active
FROM affiliate_configs
WHERE is_active = true
ORDER BY store_key`

// PoolConfig holds connection pool settings
type PoolConfig struct {
	URL         string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
	MaxConnIdle time.Duration
}

// Connect opens a pgx pool and verifies it with a ping
func Connect(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLife > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLife
	}
	if cfg.MaxConnIdle > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdle
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// querier is the subset of pgxpool.Pool used by the store
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// AffiliateStore lists active affiliate rules from the affiliate_configs table
type AffiliateStore struct {
	db querier
}

// NewAffiliateStore creates a store over a pgx pool
func NewAffiliateStore(pool *pgxpool.Pool) *AffiliateStore {
	return &AffiliateStore{db: pool}
}

// ListActive returns every row with is_active = true
func (s *AffiliateStore) ListActive(ctx context.Context) ([]domain.AffiliateConfig, error) {
	rows, err := s.db.Query(ctx, listActiveQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query affiliate configs: %w", err)
	}

	configs, err := pgx.CollectRows(rows, scanAffiliateConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to scan affiliate configs: %w", err)
	}
	return configs, nil
}

func scanAffiliateConfig(row pgx.CollectableRow) (domain.AffiliateConfig, error) {
	var (
		cfg           domain.AffiliateConfig
		affiliateType string
	)
	err := row.Scan(
		&cfg.StoreKey,
		&cfg.StoreName,
		&cfg.Domains,
		&affiliateType,
		&cfg.AffiliateParam,
		&cfg.AffiliateCode,
		&cfg.RedirectTemplate,
		&cfg.IsActive,
	)
	cfg.AffiliateType = domain.AffiliateType(affiliateType)
	return cfg, err
}
