package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumina-markets/credenza/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Nonce handles the challenge request
func (h *AuthHandlers) Nonce(c *gin.Context) {
	var req struct {
		WalletKey string `json:"walletKey" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	challenge, err := h.authService.RequestChallenge(c.Request.Context(), req.WalletKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":     challenge.Nonce,
		"expiresAt": challenge.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Verify handles the signed challenge response
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req struct {
		WalletKey string `json:"walletKey" binding:"required"`
		Nonce     string `json:"nonce" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, session, err := h.authService.VerifyResponse(c.Request.Context(), req.WalletKey, req.Nonce, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"walletKey": session.Wallet,
		"isAdmin":   session.IsAdmin,
		"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
