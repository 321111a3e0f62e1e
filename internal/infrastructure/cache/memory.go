package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTTL = 5 * time.Minute
	refreshKey = "affiliate-configs"
)

// snapshot is an immutable view of the active configs. A refresh swaps the
// pointer; readers never see a partially built list.
type snapshot struct {
	configs   []domain.AffiliateConfig
	expiresAt time.Time
}

// AffiliateConfigCache is a thread-safe in-memory cache of the active
// affiliate rules with TTL support
type AffiliateConfigCache struct {
	store   domain.AffiliateConfigStore
	ttl     time.Duration
	logger  logrus.FieldLogger
	now     func() time.Time
	current atomic.Pointer[snapshot]
	group   singleflight.Group

	// bumped by InvalidateCache so a reload that started before an
	// invalidation does not publish a fresh-looking snapshot
	generation atomic.Uint64
}

// NewAffiliateConfigCache creates a new cache in front of store
func NewAffiliateConfigCache(store domain.AffiliateConfigStore, ttl time.Duration, logger logrus.FieldLogger) *AffiliateConfigCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &AffiliateConfigCache{
		store:  store,
		ttl:    ttl,
		logger: logger.WithField("component", "affiliate-cache"),
		now:    time.Now,
	}
}

// GetActiveConfigs returns the cached rules while they are fresh, otherwise
// reloads them from the store. Concurrent misses share one reload. When a
// reload fails and an older snapshot exists, the older snapshot is served.
func (c *AffiliateConfigCache) GetActiveConfigs(ctx context.Context) ([]domain.AffiliateConfig, error) {
	snap := c.current.Load()
	if snap != nil && c.now().Before(snap.expiresAt) {
		return snap.configs, nil
	}

	v, err, _ := c.group.Do(refreshKey, func() (interface{}, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		if snap != nil {
			c.logger.WithError(err).Warn("affiliate config refresh failed, serving stale snapshot")
			return snap.configs, nil
		}
		return nil, err
	}

	return v.([]domain.AffiliateConfig), nil
}

// InvalidateCache expires the current snapshot so the next read reloads. The
// expired list is kept as the stale fallback.
func (c *AffiliateConfigCache) InvalidateCache() {
	c.generation.Add(1)
	for {
		old := c.current.Load()
		if old == nil {
			break
		}
		if c.current.CompareAndSwap(old, &snapshot{configs: old.configs}) {
			break
		}
	}
	c.logger.Info("affiliate config cache invalidated")
}

// Size returns the number of cached configs, 0 when the cache is empty
func (c *AffiliateConfigCache) Size() int {
	snap := c.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.configs)
}

// refresh loads the active rules and publishes a new snapshot
func (c *AffiliateConfigCache) refresh(ctx context.Context) ([]domain.AffiliateConfig, error) {
	gen := c.generation.Load()
	loaded, err := c.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	configs := make([]domain.AffiliateConfig, 0, len(loaded))
	for _, cfg := range loaded {
		if cfg.IsActive {
			configs = append(configs, cfg)
		}
	}

	expiresAt := c.now().Add(c.ttl)
	if c.generation.Load() != gen {
		expiresAt = time.Time{}
	}
	c.current.Store(&snapshot{
		configs:   configs,
		expiresAt: expiresAt,
	})

	c.logger.WithField("configs", len(configs)).Debug("affiliate configs reloaded")
	return configs, nil
}
