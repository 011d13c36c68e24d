package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumina-markets/credenza/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, credentialService *service.CredentialService, sessionService *service.SessionService) *gin.Engine {
	router := gin.Default()

	authHandlers := NewAuthHandlers(authService)
	credentialHandlers := NewCredentialHandlers(credentialService)
	kycHandlers := NewKycHandlers(sessionService)
	adminHandlers := NewAdminHandlers(credentialService)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/nonce", authHandlers.Nonce)
		auth.POST("/verify", authHandlers.Verify)
	}

	// Credential routes; mutations require a bearer token, the token wallet
	// acts as the issuing authority
	credentials := router.Group("/credentials")
	{
		credentials.GET("/:wallet", credentialHandlers.Get)
		credentials.POST("/verify", credentialHandlers.Verify)

		gated := credentials.Group("", AuthMiddleware(authService))
		{
			gated.POST("/issue", credentialHandlers.Issue)
			gated.POST("/refresh", credentialHandlers.Refresh)
			gated.POST("/revoke", credentialHandlers.Revoke)
		}
	}

	// KYC session routes
	kyc := router.Group("/kyc")
	{
		kyc.POST("/session", kycHandlers.Create)
		kyc.GET("/session/:id", kycHandlers.Get)
		kyc.PUT("/session/:id", kycHandlers.Update)
		kyc.POST("/session/:id/submit", kycHandlers.Submit)
		kyc.DELETE("/session/:id", kycHandlers.Delete)
	}

	// Network administration, admin token only
	admin := router.Group("/admin", AuthMiddleware(authService), AdminOnly())
	{
		admin.POST("/network", adminHandlers.InitializeNetwork)
		admin.GET("/network", adminHandlers.GetNetwork)
		admin.PUT("/network/active", adminHandlers.SetNetworkActive)
		admin.POST("/issuers", adminHandlers.RegisterIssuer)
		admin.GET("/issuers/:key", adminHandlers.GetIssuer)
		admin.PUT("/issuers/:key/active", adminHandlers.SetIssuerActive)
	}

	return router
}
