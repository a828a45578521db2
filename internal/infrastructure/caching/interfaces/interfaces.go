// Package interfaces defines cache operation contracts for banner reads.
package interfaces

import (
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
)

// BannerCache caches storefront reads. Every write path invalidates it and
// bumps Generation, so a read that overlapped a write cannot repopulate it.
type BannerCache interface {
	GetBanner(id string) (*banner.Banner, bool)
	SetBannerIfCurrent(b *banner.Banner, gen uint64) bool
	GetActiveList() ([]*banner.Banner, bool)
	SetActiveListIfCurrent(list []*banner.Banner, gen uint64) bool
	Generation() uint64
	InvalidateBanner(id string)
	InvalidateAll()
	PurgeExpired(now time.Time) int
	Stats() CacheStats
}

// CacheStats summarizes cache occupancy and effectiveness.
type CacheStats struct {
	Banners    int     `json:"banners"`
	ActiveList bool    `json:"activeList"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRatio   float64 `json:"hitRatio"`
}
