package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/bannerstack-go/internal/application/services"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
)

// UploadAssetRequest is the JSON upload form: a base64 data URL plus a filename.
type UploadAssetRequest struct {
	Filename string `json:"filename"`
	Data     string `json:"data" binding:"required"`
}

// AssetHandlers serves media uploads and the product-link picker
type AssetHandlers struct {
	assetService   *services.AssetService
	catalogService *services.CatalogService
	maxUploadBytes int64
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewAssetHandlers creates asset handlers with injected dependencies
func NewAssetHandlers(assetService *services.AssetService, catalogService *services.CatalogService, maxUploadBytes int64, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AssetHandlers {
	return &AssetHandlers{
		assetService:   assetService,
		catalogService: catalogService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// UploadAsset accepts a multipart "file" field or a JSON data URL and returns the public URL
func (h *AssetHandlers) UploadAsset(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("media:upload", "admin")
	defer marker.Complete()

	if h.maxUploadBytes > 0 {
		// allow for multipart framing and base64 expansion
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes*2)
	}

	filename, data, err := h.readUpload(c)
	if err != nil {
		marker.SetError(err)
		h.logger.Media().Warn("Rejected upload body", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload", "details": err.Error()})
		return
	}

	url, err := h.assetService.Upload(c.Request.Context(), filename, data)
	if err != nil {
		marker.SetError(err)
		h.logger.Media().Warn("Upload failed", "filename", filename, "bytes", len(data), "error", err.Error())
		respondError(c, err, "failed to store upload")
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for UploadAsset request", "duration", time.Since(start), "bytes", len(data))
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h *AssetHandlers) readUpload(c *gin.Context) (string, []byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return "", nil, err
		}
		f, err := header.Open()
		if err != nil {
			return "", nil, err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		return header.Filename, data, err
	}

	var req UploadAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", nil, err
	}
	data, err := media.DecodeDataURL(req.Data)
	return req.Filename, data, err
}

// SearchProducts backs the image product-link picker: ?q=term&limit=n
func (h *AssetHandlers) SearchProducts(c *gin.Context) {
	marker := h.perfTracker.StartOperation("media:product_search", "admin")
	defer marker.Complete()

	limit, _ := strconv.Atoi(c.Query("limit"))
	products, err := h.catalogService.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		marker.SetError(err)
		h.logger.Database().Error("Product search failed", "error", err.Error())
		respondError(c, err, "failed to search products")
		return
	}

	if products == nil {
		products = []banner.Product{}
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}
