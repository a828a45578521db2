// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/bannerstack-go/internal/application/container"
	"github.com/AtRiskMedia/bannerstack-go/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/bannerstack-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/bannerstack-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(container.Logger))
	r.Use(middleware.CORSMiddleware(config.CORSAllowedOrigins))

	// Uploaded media is served from disk
	r.Static(config.MediaURLPrefix, config.MediaDirectory)

	// Initialize handlers
	bannerHandlers := handlers.NewBannerHandlers(container.BannerService, container.Renderer, container.Logger, container.PerfTracker)
	storefrontHandlers := handlers.NewStorefrontHandlers(container.BannerService, container.Renderer, container.Logger, container.PerfTracker)
	assetHandlers := handlers.NewAssetHandlers(container.AssetService, container.CatalogService, config.MaxUploadBytes, container.Logger, container.PerfTracker)
	editorHandlers := handlers.NewEditorHandlers(
		container.EditorService,
		container.BannerService,
		container.AuthService,
		container.EditorHub,
		handlers.EditorSocketSettingsFromConfig(),
		container.Logger,
		container.PerfTracker,
	)
	healthHandlers := handlers.NewHealthHandlers(container.DB, container.BannerCache, container.EditorHub, container.Logger, container.PerfTracker)
	logHandlers := handlers.NewLogHandlers(container.Logger)

	r.GET("/health", healthHandlers.GetHealth)

	// Storefront HTML, read-only
	r.GET("/banners", storefrontHandlers.RenderActiveBanners)
	r.GET("/banners/:id", storefrontHandlers.RenderBanner)

	api := r.Group("/api/v1")
	{
		// Storefront JSON
		api.GET("/banners", storefrontHandlers.GetActiveBanners)

		// The editor socket authenticates with a ticket in the query string
		api.GET("/admin/editor/:id/ws", middleware.EditorAuth(container.AuthService), editorHandlers.EditorSocket)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(container.AuthService))
		{
			admin.GET("/banners", bannerHandlers.ListBanners)
			admin.POST("/banners", bannerHandlers.CreateBanner)
			admin.PUT("/banners/reorder", bannerHandlers.ReorderBanners)
			admin.POST("/banners/validate", bannerHandlers.ValidateElements)
			admin.GET("/banners/:id", bannerHandlers.GetBanner)
			admin.PUT("/banners/:id", bannerHandlers.UpdateBanner)
			admin.DELETE("/banners/:id", bannerHandlers.DeleteBanner)
			admin.GET("/banners/:id/preview", bannerHandlers.PreviewBanner)
			admin.POST("/banners/:id/editor-ticket", editorHandlers.IssueTicket)

			admin.POST("/assets", assetHandlers.UploadAsset)
			admin.GET("/products", assetHandlers.SearchProducts)

			admin.GET("/logs/levels", logHandlers.GetLogLevels)
			admin.PUT("/logs/levels", logHandlers.SetLogLevel)
		}
	}

	return r
}
