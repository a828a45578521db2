package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandlers reports service health
type HealthHandlers struct {
	db          Pinger
	cache       interfaces.BannerCache
	hub         *messaging.EditorHub
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(db Pinger, cache interfaces.BannerCache, hub *messaging.EditorHub, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{db: db, cache: cache, hub: hub, logger: logger, perfTracker: perfTracker}
}

// GetHealth pings the database and summarizes cache and performance state.
// A failed ping turns the response into a 503.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	database := "ok"
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Database().Error("Health check ping failed", "error", err.Error())
		status = http.StatusServiceUnavailable
		database = "unreachable"
	}

	snapshot := h.perfTracker.TakeSnapshot()
	body := gin.H{
		"status":      statusLabel(status),
		"database":    database,
		"cache":       h.cache.Stats(),
		"performance": snapshot.OverallHealth,
		"activeOps":   snapshot.ActiveOperations,
		"tracker":     h.perfTracker.GetOverallStats(),
		"alerts":      h.perfTracker.GetAlerts(),
		"timestamp":   time.Now().UTC(),
	}
	if h.hub != nil {
		body["editorSessions"] = h.hub.SessionCount()
	}
	c.JSON(status, body)
}

func statusLabel(status int) string {
	if status == http.StatusOK {
		return "ok"
	}
	return "degraded"
}
