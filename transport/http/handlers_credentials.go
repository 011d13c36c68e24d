package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/service"
)

// CredentialHandlers contains HTTP handlers for credential endpoints
type CredentialHandlers struct {
	credentials *service.CredentialService
}

// NewCredentialHandlers creates new credential handlers
func NewCredentialHandlers(credentials *service.CredentialService) *CredentialHandlers {
	return &CredentialHandlers{credentials: credentials}
}

// Get returns the holder's credential record
func (h *CredentialHandlers) Get(c *gin.Context) {
	holder := c.Param("wallet")

	credential, err := h.credentials.GetCredential(c.Request.Context(), holder)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, credentialResponse(credential, time.Now()))
}

// Verify answers whether a holder's credential is valid right now
func (h *CredentialHandlers) Verify(c *gin.Context) {
	var req struct {
		UserWallet   string `json:"userWallet" binding:"required"`
		RequiredType string `json:"requiredType"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var requiredType *core.CredentialType
	if req.RequiredType != "" {
		t, err := core.ParseCredentialType(req.RequiredType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		requiredType = &t
	}

	outcome, err := h.credentials.Verify(c.Request.Context(), req.UserWallet, requiredType)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"isValid": outcome.IsValid}
	if outcome.Reason != "" {
		resp["reason"] = outcome.Reason
	}
	c.JSON(http.StatusOK, resp)
}

// Issue creates a credential; the token wallet is the issuing authority
func (h *CredentialHandlers) Issue(c *gin.Context) {
	var req struct {
		HolderWallet   string `json:"holderWallet" binding:"required"`
		CredentialType string `json:"credentialType" binding:"required"`
		ExpiresInDays  int    `json:"expiresInDays" binding:"required,gt=0"`
		MetadataURI    string `json:"metadataUri"`
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

	credential, sig, err := h.credentials.Issue(c.Request.Context(), callerWallet(c), req.HolderWallet, credType, req.ExpiresInDays, req.MetadataURI)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"credential":      credentialResponse(credential, time.Now()),
		"ledgerSignature": string(sig),
	})
}

// Refresh extends a credential's expiry; only the issuing authority may
func (h *CredentialHandlers) Refresh(c *gin.Context) {
	var req struct {
		HolderWallet  string `json:"holderWallet" binding:"required"`
		ExpiresInDays int    `json:"expiresInDays" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	credential, sig, err := h.credentials.Refresh(c.Request.Context(), callerWallet(c), req.HolderWallet, req.ExpiresInDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"credential":      credentialResponse(credential, time.Now()),
		"ledgerSignature": string(sig),
	})
}

// Revoke terminally disables a credential; admin or issuing authority only
func (h *CredentialHandlers) Revoke(c *gin.Context) {
	var req struct {
		HolderWallet string `json:"holderWallet" binding:"required"`
		Reason       string `json:"reason" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	credential, sig, err := h.credentials.Revoke(c.Request.Context(), callerWallet(c), req.HolderWallet, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"credential":      credentialResponse(credential, time.Now()),
		"ledgerSignature": string(sig),
	})
}

// credentialResponse renders a credential with its status derived at read
// time, since stored Active records can already be past expiry.
func credentialResponse(credential *core.Credential, now time.Time) gin.H {
	resp := gin.H{
		"holder":         credential.Holder,
		"issuer":         credential.Issuer,
		"credentialType": string(credential.Type),
		"status":         string(credential.EffectiveStatus(now)),
		"issuedAt":       credential.IssuedAt.UTC().Format(time.RFC3339),
		"expiresAt":      credential.ExpiresAt.UTC().Format(time.RFC3339),
		"version":        credential.Version,
	}
	if !credential.LastVerifiedAt.IsZero() {
		resp["lastVerifiedAt"] = credential.LastVerifiedAt.UTC().Format(time.RFC3339)
	}
	if credential.MetadataURI != "" {
		resp["metadataUri"] = credential.MetadataURI
	}
	if credential.RevocationReason != "" {
		resp["revocationReason"] = credential.RevocationReason
	}
	return resp
}
