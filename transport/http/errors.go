package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumina-markets/credenza/core"
)

// statusFor maps domain errors onto HTTP status codes following the error
// taxonomy: auth failures 400/401, authorization failures 403, missing
// state 404, conflicting state 409, everything else 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidWalletKey),
		errors.Is(err, core.ErrNonceMismatch):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrChallengeExpired),
		errors.Is(err, core.ErrInvalidSignature),
		errors.Is(err, core.ErrInvalidToken),
		errors.Is(err, core.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNotAdmin),
		errors.Is(err, core.ErrIssuerNotAuthorized),
		errors.Is(err, core.ErrNotIssuer),
		errors.Is(err, core.ErrNetworkInactive):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNoChallengeFound),
		errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrCredentialNotFound),
		errors.Is(err, core.ErrNetworkNotFound),
		errors.Is(err, core.ErrIssuerNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrCredentialRevoked),
		errors.Is(err, core.ErrNetworkExists),
		errors.Is(err, core.ErrIssuerExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		// Do not leak internals on unexpected failures
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
