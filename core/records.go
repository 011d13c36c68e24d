package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Network is the singleton record describing the credential network.
type Network struct {
	Authority              string          // admin wallet key
	Name                   string          // human-readable network name
	IssuanceFee            decimal.Decimal // fee charged per issuance
	TotalIssuers           uint64
	TotalCredentialsIssued uint64
	ActiveCredentials      uint64
	IsActive               bool
}

// Issuer is the per-authority record granting issuance capabilities.
type Issuer struct {
	Authority          string // issuer wallet key
	Network            string // address of the parent network record
	Name               string
	CanIssueKyc        bool
	CanIssueAccredited bool
	CredentialsIssued  uint64
	ActiveCredentials  uint64
	RevokedCredentials uint64
	IsActive           bool
}

// CanIssue reports whether the issuer holds the capability for a type.
func (i *Issuer) CanIssue(t CredentialType) bool {
	if t.RequiresAccreditedCapability() {
		return i.CanIssueAccredited
	}
	return i.CanIssueKyc
}

// CredentialFormatVersion is stamped on every credential record so future
// format changes can be decoded side by side.
const CredentialFormatVersion = 1

// Credential is the single attestation record a holder can carry.
type Credential struct {
	Holder           string // holder wallet key
	Issuer           string // issuing authority wallet key
	Type             CredentialType
	Status           CredentialStatus
	IssuedAt         time.Time
	ExpiresAt        time.Time
	LastVerifiedAt   time.Time
	MetadataURI      string
	RevocationReason string // set only when Status is revoked
	Version          int
}

// EffectiveStatus derives the credential's state at a point in time.
// Revocation and suspension take precedence over expiry; an Active record
// past ExpiresAt reports expired even though the stored status is untouched.
func (c *Credential) EffectiveStatus(now time.Time) CredentialStatus {
	switch c.Status {
	case StatusRevoked, StatusSuspended:
		return c.Status
	}
	if !c.ExpiresAt.After(now) {
		return StatusExpired
	}
	return c.Status
}
