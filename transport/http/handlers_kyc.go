package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/service"
)

// KycHandlers contains HTTP handlers for KYC session endpoints
type KycHandlers struct {
	sessions *service.SessionService
}

// NewKycHandlers creates new KYC session handlers
func NewKycHandlers(sessions *service.SessionService) *KycHandlers {
	return &KycHandlers{sessions: sessions}
}

// Create opens a new KYC session
func (h *KycHandlers) Create(c *gin.Context) {
	var req struct {
		WalletKey      string `json:"walletKey" binding:"required"`
		CredentialType string `json:"credentialType" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	credType, err := core.ParseCredentialType(req.CredentialType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.CreateSession(c.Request.Context(), req.WalletKey, credType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(session))
}

// Get returns a session descriptor
func (h *KycHandlers) Get(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// Update merges partial identity data into an open session
func (h *KycHandlers) Update(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session, err := h.sessions.UpdateSessionData(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// Submit validates the session and attempts issuance
func (h *KycHandlers) Submit(c *gin.Context) {
	session, err := h.sessions.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// Delete removes a session
func (h *KycHandlers) Delete(c *gin.Context) {
	if err := h.sessions.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func sessionResponse(session *core.KycSession) gin.H {
	resp := gin.H{
		"id":             session.ID,
		"walletKey":      session.Wallet,
		"credentialType": string(session.Type),
		"status":         string(session.Status),
		"createdAt":      session.CreatedAt.UTC().Format(time.RFC3339),
		"expiresAt":      session.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if session.Result != nil {
		resp["verificationResult"] = session.Result
	}
	return resp
}
