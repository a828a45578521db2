package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/bannerstack-go/internal/application/services"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/bannerstack-go/internal/presentation/templates"
)

// StorefrontHandlers serves active banners to shoppers
type StorefrontHandlers struct {
	bannerService *services.BannerService
	renderer      *templates.BannerRenderer
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewStorefrontHandlers creates storefront handlers with injected dependencies
func NewStorefrontHandlers(bannerService *services.BannerService, renderer *templates.BannerRenderer, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *StorefrontHandlers {
	return &StorefrontHandlers{
		bannerService: bannerService,
		renderer:      renderer,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetActiveBanners returns the active banners in display order using cache-first pattern
func (h *StorefrontHandlers) GetActiveBanners(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("banner:storefront_list", "storefront")
	defer marker.Complete()

	list, err := h.bannerService.ListActive(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		h.logger.Banner().Error("List active banners failed", "error", err.Error())
		respondError(c, err, "failed to load banners")
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetActiveBanners request", "duration", time.Since(start), "count", len(list))
	c.JSON(http.StatusOK, gin.H{"banners": list, "count": len(list)})
}

// RenderActiveBanners renders every active banner as a standalone page
func (h *StorefrontHandlers) RenderActiveBanners(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("banner:render_storefront", "storefront")
	defer marker.Complete()

	list, err := h.bannerService.ListActive(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		h.logger.Banner().Error("List active banners failed", "error", err.Error())
		c.String(http.StatusInternalServerError, "failed to load banners")
		return
	}

	body, err := h.renderer.RenderStorefrontList(list)
	if err == nil {
		var page string
		page, err = h.renderer.RenderPage("Banners", body)
		if err == nil {
			marker.SetSuccess(true)
			h.logger.Perf().Info("Performance for RenderActiveBanners request", "duration", time.Since(start), "count", len(list))
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
			return
		}
	}
	marker.SetError(err)
	h.logger.LogError(logging.ChannelBanner, "render_storefront", err, map[string]any{"count": len(list)})
	c.String(http.StatusInternalServerError, "failed to render banners")
}

// RenderBanner renders one active banner. Inactive banners are not shown on the storefront.
func (h *StorefrontHandlers) RenderBanner(c *gin.Context) {
	bannerID := c.Param("id")
	marker := h.perfTracker.StartOperation("banner:render", bannerID)
	defer marker.Complete()

	b, err := h.bannerService.GetByID(c.Request.Context(), bannerID)
	if err == nil && !b.IsActive {
		err = repositories.ErrBannerNotFound
	}
	if err != nil {
		marker.SetError(err)
		if errors.Is(err, repositories.ErrBannerNotFound) {
			c.String(http.StatusNotFound, "banner not found")
			return
		}
		h.logger.Banner().Error("Load banner failed", "bannerId", bannerID, "error", err.Error())
		c.String(http.StatusInternalServerError, "failed to load banner")
		return
	}

	body, err := h.renderer.RenderStorefront(b)
	if err == nil {
		var page string
		page, err = h.renderer.RenderPage(b.Title, body)
		if err == nil {
			marker.SetSuccess(true)
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
			return
		}
	}
	marker.SetError(err)
	h.logger.LogError(logging.ChannelBanner, "render_banner", err, map[string]any{"bannerId": bannerID})
	c.String(http.StatusInternalServerError, "failed to render banner")
}
