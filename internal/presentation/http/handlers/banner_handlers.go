// Package handlers provides HTTP handlers for the banner API, storefront and editor
package handlers

import (
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/bannerstack-go/internal/application/services"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/rendering"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/bannerstack-go/internal/presentation/templates"
)

// BannerHandlers contains the admin banner endpoints
type BannerHandlers struct {
	bannerService *services.BannerService
	renderer      *templates.BannerRenderer
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewBannerHandlers creates banner handlers with injected dependencies
func NewBannerHandlers(bannerService *services.BannerService, renderer *templates.BannerRenderer, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *BannerHandlers {
	return &BannerHandlers{
		bannerService: bannerService,
		renderer:      renderer,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// ListBanners returns every banner, active or not, in display order
func (h *BannerHandlers) ListBanners(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("banner:list", "admin")
	defer marker.Complete()

	list, err := h.bannerService.ListAll(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		h.logger.Banner().Error("List banners failed", "error", err.Error())
		respondError(c, err, "failed to list banners")
		return
	}

	marker.SetSuccess(true)
	h.logger.Banner().Info("List banners request completed", "count", len(list), "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"banners": list, "count": len(list)})
}

// GetBanner returns one banner by ID
func (h *BannerHandlers) GetBanner(c *gin.Context) {
	start := time.Now()
	bannerID := c.Param("id")
	marker := h.perfTracker.StartOperation("banner:get", bannerID)
	defer marker.Complete()

	b, err := h.bannerService.GetByID(c.Request.Context(), bannerID)
	if err != nil {
		marker.SetError(err)
		h.logger.Banner().Warn("Get banner failed", "bannerId", bannerID, "error", err.Error())
		respondError(c, err, "failed to load banner")
		return
	}

	marker.SetSuccess(true)
	h.logger.Banner().Debug("Get banner request completed", "bannerId", bannerID, "duration", time.Since(start))
	c.JSON(http.StatusOK, b)
}

// CreateBanner validates and stores a new banner
func (h *BannerHandlers) CreateBanner(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("banner:create", "admin")
	defer marker.Complete()

	var req services.BannerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.bannerService.Create(c.Request.Context(), &req)
	if err != nil {
		marker.SetError(err)
		h.logger.Banner().Warn("Create banner failed", "error", err.Error())
		respondError(c, err, "failed to create banner")
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for CreateBanner request", "duration", time.Since(start), "bannerId", result.Banner.ID, "dropped", len(result.Dropped))
	c.JSON(http.StatusCreated, result)
}

// UpdateBanner replaces a banner's fields
func (h *BannerHandlers) UpdateBanner(c *gin.Context) {
	start := time.Now()
	bannerID := c.Param("id")
	marker := h.perfTracker.StartOperation("banner:update", bannerID)
	defer marker.Complete()

	var req services.BannerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.bannerService.Update(c.Request.Context(), bannerID, &req)
	if err != nil {
		marker.SetError(err)
		h.logger.Banner().Warn("Update banner failed", "bannerId", bannerID, "error", err.Error())
		respondError(c, err, "failed to update banner")
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for UpdateBanner request", "duration", time.Since(start), "bannerId", bannerID, "dropped", len(result.Dropped))
	c.JSON(http.StatusOK, result)
}

// DeleteBanner removes a banner
func (h *BannerHandlers) DeleteBanner(c *gin.Context) {
	bannerID := c.Param("id")
	marker := h.perfTracker.StartOperation("banner:delete", bannerID)
	defer marker.Complete()

	if err := h.bannerService.Delete(c.Request.Context(), bannerID); err != nil {
		marker.SetError(err)
		h.logger.Banner().Warn("Delete banner failed", "bannerId", bannerID, "error", err.Error())
		respondError(c, err, "failed to delete banner")
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": bannerID})
}

// ReorderBanners applies a batch of display orders in one transaction
func (h *BannerHandlers) ReorderBanners(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("banner:reorder", "admin")
	defer marker.Complete()

	var updates []banner.OrderUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "updates array cannot be empty"})
		return
	}

	if err := h.bannerService.Reorder(c.Request.Context(), updates); err != nil {
		marker.SetError(err)
		h.logger.Banner().Warn("Reorder banners failed", "count", len(updates), "error", err.Error())
		respondError(c, err, "failed to reorder banners")
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for ReorderBanners request", "duration", time.Since(start), "count", len(updates))
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(updates)})
}

// ValidateElements runs write-path normalization on an element list without saving it.
// The body is the raw array.
func (h *BannerHandlers) ValidateElements(c *gin.Context) {
	marker := h.perfTracker.StartOperation("banner:validate", "admin")
	defer marker.Complete()

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	result, err := h.bannerService.ValidateElements(raw)
	if err != nil {
		marker.SetError(err)
		respondError(c, err, "failed to validate elements")
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"valid": true, "textElements": result.Elements, "dropped": result.Dropped})
}

// PreviewBanner renders the editor preview of a stored banner for one viewport.
// ?format=fragment returns the markup without the surrounding document.
func (h *BannerHandlers) PreviewBanner(c *gin.Context) {
	start := time.Now()
	bannerID := c.Param("id")
	marker := h.perfTracker.StartOperation("banner:preview", bannerID)
	defer marker.Complete()

	vp := banner.ParseViewport(c.Query("viewport"))
	scene, err := h.bannerService.Scene(c.Request.Context(), bannerID, vp, rendering.ModeEditor)
	if err != nil {
		marker.SetError(err)
		respondError(c, err, "failed to load banner")
		return
	}

	fragment, err := h.renderer.RenderPreview(scene)
	if err != nil {
		marker.SetError(err)
		h.logger.Banner().Error("Preview render failed", "bannerId", bannerID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render preview"})
		return
	}

	out := fragment
	if c.Query("format") != "fragment" {
		out, err = h.renderer.RenderPage("Preview", template.HTML(fragment))
		if err != nil {
			marker.SetError(err)
			h.logger.Banner().Error("Preview page render failed", "bannerId", bannerID, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render preview"})
			return
		}
	}

	marker.SetSuccess(true)
	h.logger.Banner().Debug("Preview rendered", "bannerId", bannerID, "viewport", vp, "duration", time.Since(start))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}
