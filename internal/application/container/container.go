// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/AtRiskMedia/bannerstack-go/internal/application/services"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/schema"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
	bannerpersistence "github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/persistence/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/bannerstack-go/internal/presentation/templates"
	"github.com/AtRiskMedia/bannerstack-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	BannerService  *services.BannerService
	EditorService  *services.EditorService
	AssetService   *services.AssetService
	CatalogService *services.CatalogService
	AuthService    *services.AuthService

	// Presentation
	Renderer *templates.BannerRenderer

	// Infrastructure Dependencies
	DB          *database.DB
	BannerCache *stores.BannerStore
	EditorHub   *messaging.EditorHub
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	cache := stores.NewBannerStore(config.BannerCacheTTL, logger)
	renderer := templates.NewBannerRenderer()

	bannerRepo := bannerpersistence.NewBannerRepository(db.DB, cache, logger, perfTracker)
	productRepo := bannerpersistence.NewProductRepository(db.DB, logger)
	uploader := media.NewImageProcessor(media.OptionsFromConfig(), logger)

	bannerService := services.NewBannerService(bannerRepo, schema.NewValidator(), logger)

	return &Container{
		BannerService:  bannerService,
		EditorService:  services.NewEditorService(bannerService, renderer, perfTracker, logger),
		AssetService:   services.NewAssetService(uploader, logger),
		CatalogService: services.NewCatalogService(productRepo, config.ProductPageLimit),
		AuthService:    services.NewAuthService(config.JWTSecret, config.JWTIssuer, config.EditorTicketTTL, logger),

		Renderer: renderer,

		DB:          db,
		BannerCache: cache,
		EditorHub:   messaging.NewEditorHub(config.EditorPresenceTick, logger),
		Logger:      logger,
		PerfTracker: perfTracker,
	}
}
