// Package cleanup provides the background worker that prunes expired cache entries and
// old performance markers.
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
)

// Worker handles background cleanup operations
type Worker struct {
	cache   interfaces.BannerCache
	tracker *performance.Tracker
	logger  *logging.ChanneledLogger
	config  *Config
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(cache interfaces.BannerCache, tracker *performance.Tracker, logger *logging.ChanneledLogger, config *Config) *Worker {
	return &Worker{
		cache:   cache,
		tracker: tracker,
		logger:  logger,
		config:  config,
	}
}

// Start runs cleanup on the configured interval until ctx is cancelled
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started",
		"interval", w.config.CleanupInterval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce(time.Now())
		}
	}
}

// RunOnce performs a single cleanup pass and returns the number of cache entries purged
func (w *Worker) RunOnce(now time.Time) int {
	start := time.Now()

	purged := w.cache.PurgeExpired(now)
	if w.tracker != nil {
		w.tracker.Cleanup()
	}

	log := w.logger.WithOperation(logging.ChannelCache, "cleanup")
	duration := time.Since(start)
	if purged > 0 {
		log.Info("Cache cleanup finished", "purged", purged, "duration", duration)
	} else if w.config.VerboseReporting {
		log.Info("Cache cleanup completed - no expired items found", "duration", duration)
	}
	if w.config.VerboseReporting {
		stats := w.cache.Stats()
		log.Info("Banner cache report",
			"banners", stats.Banners,
			"activeList", stats.ActiveList,
			"hits", stats.Hits,
			"misses", stats.Misses,
			"hitRatio", stats.HitRatio,
		)
	}
	return purged
}
