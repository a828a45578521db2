// Package repositories defines the persistence and catalog interfaces the banner
// services depend on. Implementations live under internal/infrastructure.
package repositories

import (
	"context"
	"errors"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
)

// ErrBannerNotFound is returned when no banner has the requested id.
var ErrBannerNotFound = errors.New("banner not found")

// BannerRepository stores banners with their element lists. Writes are last-writer-wins.
type BannerRepository interface {
	FindByID(ctx context.Context, id string) (*banner.Banner, error)
	FindAll(ctx context.Context) ([]*banner.Banner, error)
	FindActive(ctx context.Context) ([]*banner.Banner, error)
	Store(ctx context.Context, b *banner.Banner) error
	Update(ctx context.Context, b *banner.Banner) error
	Delete(ctx context.Context, id string) error
	// Reorder applies every update or none.
	Reorder(ctx context.Context, updates []banner.OrderUpdate) error
}

// ProductCatalog searches the storefront's products for the image link picker.
type ProductCatalog interface {
	Search(ctx context.Context, term string, limit int) ([]banner.Product, error)
}

// AssetUploader stores an uploaded file and returns its public URL.
type AssetUploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}
