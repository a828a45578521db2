package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/schema"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/media"
)

// respondError maps domain errors to status codes. Anything unrecognized is a 500 with
// the fallback message; the underlying error is logged by the caller, never returned.
func respondError(c *gin.Context, err error, fallback string) int {
	var ve *schema.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": ve.Fields})
		return http.StatusUnprocessableEntity
	case errors.Is(err, repositories.ErrBannerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "banner not found"})
		return http.StatusNotFound
	case errors.Is(err, media.ErrUploadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, media.ErrUnsupportedFormat):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return http.StatusUnsupportedMediaType
	case errors.Is(err, media.ErrEmptyUpload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return http.StatusBadRequest
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
		return http.StatusInternalServerError
	}
}
