package core

import "time"

// Challenge represents a single-use authentication challenge
type Challenge struct {
	Wallet    string    // Wallet key the challenge is bound to
	Nonce     string    // Full prompt the wallet must sign, nonce included
	IssuedAt  time.Time // When the challenge was created
	ExpiresAt time.Time // When the challenge expires
}

// Expired reports whether the challenge is past its TTL.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// SessionToken represents an authenticated caller
type SessionToken struct {
	ID        string    // Unique token identifier
	Wallet    string    // Wallet key of the caller
	IsAdmin   bool      // Whether the wallet is the network authority
	IssuedAt  time.Time // When the token was created
	ExpiresAt time.Time // When the token expires
}
