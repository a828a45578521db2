package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
)

// AssetService forwards uploads to the configured AssetUploader
type AssetService struct {
	uploader repositories.AssetUploader
	logger   *logging.ChanneledLogger
}

// NewAssetService creates a new asset application service
func NewAssetService(uploader repositories.AssetUploader, logger *logging.ChanneledLogger) *AssetService {
	return &AssetService{uploader: uploader, logger: logger}
}

// Upload stores a file and returns its public URL
func (s *AssetService) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if strings.TrimSpace(filename) == "" {
		filename = "upload"
	}
	url, err := s.uploader.Upload(ctx, filename, data)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	return url, nil
}

// CatalogService backs the product-link picker
type CatalogService struct {
	catalog  repositories.ProductCatalog
	maxLimit int
}

// NewCatalogService creates a new catalog application service. maxLimit caps page size.
func NewCatalogService(catalog repositories.ProductCatalog, maxLimit int) *CatalogService {
	if maxLimit <= 0 {
		maxLimit = 20
	}
	return &CatalogService{catalog: catalog, maxLimit: maxLimit}
}

// Search returns products matching term. Product ids are never checked against the
// catalog on banner writes; this only feeds the picker.
func (s *CatalogService) Search(ctx context.Context, term string, limit int) ([]banner.Product, error) {
	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}
	products, err := s.catalog.Search(ctx, strings.TrimSpace(term), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}
