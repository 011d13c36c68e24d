package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/service"
)

// AdminHandlers contains HTTP handlers for network administration
type AdminHandlers struct {
	credentials *service.CredentialService
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(credentials *service.CredentialService) *AdminHandlers {
	return &AdminHandlers{credentials: credentials}
}

// InitializeNetwork creates the singleton network record
func (h *AdminHandlers) InitializeNetwork(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		IssuanceFee string `json:"issuanceFee"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fee := decimal.Zero
	if req.IssuanceFee != "" {
		parsed, err := decimal.NewFromString(req.IssuanceFee)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issuance fee"})
			return
		}
		fee = parsed
	}

	network, sig, err := h.credentials.InitializeNetwork(c.Request.Context(), callerWallet(c), req.Name, fee)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"network":         networkResponse(network),
		"ledgerSignature": string(sig),
	})
}

// SetNetworkActive pauses or resumes the network
func (h *AdminHandlers) SetNetworkActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sig, err := h.credentials.SetNetworkActive(c.Request.Context(), callerWallet(c), *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ledgerSignature": string(sig)})
}

// GetNetwork returns the network record
func (h *AdminHandlers) GetNetwork(c *gin.Context) {
	network, err := h.credentials.GetNetwork(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, networkResponse(network))
}

// RegisterIssuer grants an authority key issuance capabilities
func (h *AdminHandlers) RegisterIssuer(c *gin.Context) {
	var req struct {
		AuthorityKey       string `json:"authorityKey" binding:"required"`
		Name               string `json:"name" binding:"required"`
		CanIssueKyc        bool   `json:"canIssueKyc"`
		CanIssueAccredited bool   `json:"canIssueAccredited"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	issuer, sig, err := h.credentials.RegisterIssuer(c.Request.Context(), callerWallet(c), req.AuthorityKey, req.Name, req.CanIssueKyc, req.CanIssueAccredited)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"issuer":          issuerResponse(issuer),
		"ledgerSignature": string(sig),
	})
}

// SetIssuerActive enables or disables an issuer
func (h *AdminHandlers) SetIssuerActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sig, err := h.credentials.SetIssuerActive(c.Request.Context(), callerWallet(c), c.Param("key"), *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ledgerSignature": string(sig)})
}

// GetIssuer returns an issuer record
func (h *AdminHandlers) GetIssuer(c *gin.Context) {
	issuer, err := h.credentials.GetIssuer(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issuerResponse(issuer))
}

func networkResponse(network *core.Network) gin.H {
	return gin.H{
		"authority":              network.Authority,
		"name":                   network.Name,
		"issuanceFee":            network.IssuanceFee.String(),
		"totalIssuers":           network.TotalIssuers,
		"totalCredentialsIssued": network.TotalCredentialsIssued,
		"activeCredentials":      network.ActiveCredentials,
		"isActive":               network.IsActive,
	}
}

func issuerResponse(issuer *core.Issuer) gin.H {
	return gin.H{
		"authority":          issuer.Authority,
		"network":            issuer.Network,
		"name":               issuer.Name,
		"canIssueKyc":        issuer.CanIssueKyc,
		"canIssueAccredited": issuer.CanIssueAccredited,
		"credentialsIssued":  issuer.CredentialsIssued,
		"activeCredentials":  issuer.ActiveCredentials,
		"revokedCredentials": issuer.RevokedCredentials,
		"isActive":           issuer.IsActive,
	}
}
