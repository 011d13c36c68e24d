package core

import "errors"

// Authentication errors. Never retried automatically.
var (
	ErrNoChallengeFound = errors.New("no challenge found for wallet")
	ErrNonceMismatch    = errors.New("nonce does not match stored challenge")
	ErrChallengeExpired = errors.New("challenge has expired")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidWalletKey = errors.New("invalid wallet key")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token has expired")
)

// Authorization errors. Surfaced as 403-class, never retried.
var (
	ErrNotAdmin            = errors.New("caller is not the network authority")
	ErrIssuerNotAuthorized = errors.New("issuer is missing, inactive, or lacks the capability")
	ErrNotIssuer           = errors.New("caller is not the issuing authority for this credential")
	ErrNetworkInactive     = errors.New("network is paused")
)

// State errors. Surfaced as 404/409-class.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrCredentialRevoked  = errors.New("credential has been revoked")
	ErrNetworkNotFound    = errors.New("network not initialized")
	ErrNetworkExists      = errors.New("network already initialized")
	ErrIssuerNotFound     = errors.New("issuer not found")
	ErrIssuerExists       = errors.New("issuer already registered")
)
