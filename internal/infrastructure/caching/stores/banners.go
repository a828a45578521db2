// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
)

type bannerEntry struct {
	banner   *banner.Banner
	storedAt time.Time
}

// BannerStore is an in-memory TTL cache of banners and the ordered active list.
// Cached banners are shared; callers must treat them as read-only.
type BannerStore struct {
	banners      map[string]bannerEntry
	active       []*banner.Banner
	activeStored time.Time
	ttl          time.Duration
	mu           sync.RWMutex
	logger       *logging.ChanneledLogger
	now          func() time.Time
	generation   uint64

	hits   atomic.Int64
	misses atomic.Int64
}

var _ interfaces.BannerCache = (*BannerStore)(nil)

// NewBannerStore creates a store whose entries expire after ttl.
func NewBannerStore(ttl time.Duration, logger *logging.ChanneledLogger) *BannerStore {
	if logger != nil {
		logger.Cache().Info("Initializing banner cache store", "ttl", ttl)
	}
	return &BannerStore{
		banners: make(map[string]bannerEntry),
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *BannerStore) expired(storedAt time.Time) bool {
	return s.ttl > 0 && s.now().Sub(storedAt) > s.ttl
}

// GetBanner retrieves a cached banner
func (s *BannerStore) GetBanner(id string) (*banner.Banner, bool) {
	start := time.Now()
	s.mu.RLock()
	entry, ok := s.banners[id]
	s.mu.RUnlock()

	hit := ok && !s.expired(entry.storedAt)
	s.record(hit)
	if s.logger != nil {
		s.logger.Cache().Debug("Cache operation", "operation", "get", "type", "banner", "id", id, "hit", hit, "duration", time.Since(start))
	}
	if !hit {
		return nil, false
	}
	return entry.banner, true
}

// Generation counts invalidations. Readers take it before a query and pass it
// to the IfCurrent setters.
func (s *BannerStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// SetBannerIfCurrent stores b only when no invalidation happened since gen was read
func (s *BannerStore) SetBannerIfCurrent(b *banner.Banner, gen uint64) bool {
	if b == nil {
		return false
	}
	s.mu.Lock()
	stored := s.generation == gen
	if stored {
		s.banners[b.ID] = bannerEntry{banner: b, storedAt: s.now()}
	}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Cache().Debug("Cache operation", "operation", "set", "type", "banner", "id", b.ID, "stored", stored)
	}
	return stored
}

// GetActiveList retrieves the cached storefront list
func (s *BannerStore) GetActiveList() ([]*banner.Banner, bool) {
	s.mu.RLock()
	list, storedAt := s.active, s.activeStored
	s.mu.RUnlock()

	hit := list != nil && !s.expired(storedAt)
	s.record(hit)
	if s.logger != nil {
		s.logger.Cache().Debug("Cache operation", "operation", "get", "type", "active_list", "hit", hit)
	}
	if !hit {
		return nil, false
	}
	return list, true
}

// SetActiveListIfCurrent stores the storefront list and its members only when
// no invalidation happened since gen was read
func (s *BannerStore) SetActiveListIfCurrent(list []*banner.Banner, gen uint64) bool {
	if list == nil {
		list = []*banner.Banner{}
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.active = list
	s.activeStored = now
	for _, b := range list {
		s.banners[b.ID] = bannerEntry{banner: b, storedAt: now}
	}
	return true
}

// InvalidateBanner drops one banner and the active list it may belong to
func (s *BannerStore) InvalidateBanner(id string) {
	s.mu.Lock()
	delete(s.banners, id)
	s.active = nil
	s.generation++
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Cache().Debug("Banner cache invalidated", "id", id)
	}
}

// InvalidateAll clears the store
func (s *BannerStore) InvalidateAll() {
	s.mu.Lock()
	s.banners = make(map[string]bannerEntry)
	s.active = nil
	s.generation++
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Cache().Info("Banner cache cleared")
	}
}

// PurgeExpired removes expired entries and reports how many were dropped
func (s *BannerStore) PurgeExpired(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, entry := range s.banners {
		if now.Sub(entry.storedAt) > s.ttl {
			delete(s.banners, id)
			purged++
		}
	}
	if s.active != nil && now.Sub(s.activeStored) > s.ttl {
		s.active = nil
		purged++
	}
	return purged
}

// Stats reports occupancy and hit ratio
func (s *BannerStore) Stats() interfaces.CacheStats {
	s.mu.RLock()
	stats := interfaces.CacheStats{Banners: len(s.banners), ActiveList: s.active != nil}
	s.mu.RUnlock()

	stats.Hits = s.hits.Load()
	stats.Misses = s.misses.Load()
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(total)
	}
	return stats
}

func (s *BannerStore) record(hit bool) {
	if hit {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
}
