package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/bannerstack-go/internal/application/services"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/security"
)

const claimsKey = "adminClaims"

// AdminAuth protects the admin API with a Bearer admin token.
func AdminAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := services.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		claims, err := auth.Authorize(token)
		if err != nil {
			abortAuth(c, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// EditorAuth protects the editor socket. Browsers cannot set headers on a websocket
// upgrade, so a ticket in ?token= is accepted alongside the Authorization header.
func EditorAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := services.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		claims, err := auth.AuthorizeEditor(token, c.Param("id"))
		if err != nil {
			abortAuth(c, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetAdminClaims returns the claims stored by AdminAuth or EditorAuth.
func GetAdminClaims(c *gin.Context) (*security.AdminClaims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*security.AdminClaims)
	return claims, ok
}

func abortAuth(c *gin.Context, err error) {
	switch {
	case errors.Is(err, security.ErrMissingSecret):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin authentication is not configured"})
	case errors.Is(err, security.ErrForbidden), errors.Is(err, services.ErrTicketScope):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}
