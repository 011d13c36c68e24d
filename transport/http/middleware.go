package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/service"
)

const (
	ctxWalletKey = "walletKey"
	ctxIsAdmin   = "isAdmin"
)

// AuthMiddleware creates middleware that validates bearer session tokens
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")

		// Check if the Authorization header is present and in correct format
		if len(auth) < 8 || auth[:7] != "Bearer " {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		session, err := authService.ValidateToken(auth[7:])
		if err != nil {
			if err == core.ErrTokenExpired {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		c.Set(ctxWalletKey, session.Wallet)
		c.Set(ctxIsAdmin, session.IsAdmin)

		c.Next()
	}
}

// AdminOnly rejects callers whose token does not carry the admin flag
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin token required"})
			return
		}
		c.Next()
	}
}

func callerWallet(c *gin.Context) string {
	return c.GetString(ctxWalletKey)
}
