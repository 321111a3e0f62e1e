package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/setupscatalog/linkengine/config"
	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/setupscatalog/linkengine/internal/infrastructure/memstore"
	mysqlstore "github.com/setupscatalog/linkengine/internal/infrastructure/mysql"
	"github.com/setupscatalog/linkengine/internal/infrastructure/postgres"
)

// newAffiliateStore opens the configured affiliate rule backend. The returned
// close function is always safe to call.
func newAffiliateStore(ctx context.Context, cfg config.AffiliateConfig) (domain.AffiliateConfigStore, func(), error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Store))
	if backend == "" {
		backend = config.StoreMemory
	}

	switch backend {
	case config.StoreMemory:
		return memstore.NewAffiliateStore(cfg.Seeds), func() {}, nil

	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, postgres.PoolConfig{URL: cfg.PostgresURL})
		if err != nil {
			return nil, func() {}, err
		}
		return postgres.NewAffiliateStore(pool), pool.Close, nil

	case config.StoreMySQL:
		db, err := mysqlstore.Open(ctx, mysqlstore.Config{DSN: cfg.MySQLDSN})
		if err != nil {
			return nil, func() {}, err
		}
		return mysqlstore.NewAffiliateStore(db), func() { _ = db.Close() }, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown affiliate store %q (use memory, postgres or mysql)", cfg.Store)
	}
}
