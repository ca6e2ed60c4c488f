package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"casino-service/internal/services"
	"casino-service/pkg/common"
)

const (
	ContextAccountID     = "account_id"
	ContextWalletAddress = "wallet_address"
	ContextIsAdmin       = "is_admin"
)

// Auth validates the bearer token and puts the claims on the gin context.
func Auth(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewErrorResponse("Missing bearer token", nil, http.StatusUnauthorized))
			return
		}
		claims, err := jwtService.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewErrorResponse("Invalid or expired token", nil, http.StatusUnauthorized))
			return
		}
		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextWalletAddress, claims.WalletAddress)
		c.Set(ContextIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminOnly must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				common.NewErrorResponse("Admin access required", nil, http.StatusForbidden))
			return
		}
		c.Next()
	}
}

// RateLimit throttles the authenticated account under the named scope.
func RateLimit(limiter *services.RateLimitService, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.GetInt(ContextAccountID)
		if !limiter.Allow(c.Request.Context(), scope, accountID) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				common.NewErrorResponse("Too many requests", nil, http.StatusTooManyRequests))
			return
		}
		c.Next()
	}
}
