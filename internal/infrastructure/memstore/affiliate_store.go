// Package memstore is the in-process AffiliateConfig store used in
// development and tests. Rules are seeded from configuration.
package memstore

import (
	"context"
	"sync"

	"github.com/setupscatalog/linkengine/internal/domain"
)

// AffiliateStore keeps affiliate rules in memory, in insertion order
type AffiliateStore struct {
	mu      sync.RWMutex
	configs []domain.AffiliateConfig
}

// NewAffiliateStore creates a store holding a copy of seeds
func NewAffiliateStore(seeds []domain.AffiliateConfig) *AffiliateStore {
	s := &AffiliateStore{}
	for _, cfg := range seeds {
		s.configs = append(s.configs, cloneConfig(cfg))
	}
	return s
}

// ListActive returns copies of the active rules
func (s *AffiliateStore) ListActive(ctx context.Context) ([]domain.AffiliateConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]domain.AffiliateConfig, 0, len(s.configs))
	for _, cfg := range s.configs {
		if cfg.IsActive {
			active = append(active, cloneConfig(cfg))
		}
	}
	return active, nil
}

// Upsert inserts or replaces the rule with the same store key
func (s *AffiliateStore) Upsert(cfg domain.AffiliateConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.configs {
		if s.configs[i].StoreKey == cfg.StoreKey {
			s.configs[i] = cloneConfig(cfg)
			return
		}
	}
	s.configs = append(s.configs, cloneConfig(cfg))
}

func cloneConfig(cfg domain.AffiliateConfig) domain.AffiliateConfig {
	out := cfg
	out.Domains = append([]string(nil), cfg.Domains...)
	out.AffiliateParam = cloneString(cfg.AffiliateParam)
	out.AffiliateCode = cloneString(cfg.AffiliateCode)
	out.RedirectTemplate = cloneString(cfg.RedirectTemplate)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
