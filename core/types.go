package core

import "fmt"

// CredentialType identifies the kind of attestation a credential carries.
type CredentialType string

const (
	CredentialKycBasic           CredentialType = "kycBasic"
	CredentialKycFull            CredentialType = "kycFull"
	CredentialAccreditedInvestor CredentialType = "accreditedInvestor"
	CredentialQualifiedPurchaser CredentialType = "qualifiedPurchaser"
	CredentialBrazilianCpf       CredentialType = "brazilianCpf"
	CredentialBrazilianCnpj      CredentialType = "brazilianCnpj"
)

// ParseCredentialType validates a wire-level credential type string.
func ParseCredentialType(s string) (CredentialType, error) {
	t := CredentialType(s)
	switch t {
	case CredentialKycBasic, CredentialKycFull,
		CredentialAccreditedInvestor, CredentialQualifiedPurchaser,
		CredentialBrazilianCpf, CredentialBrazilianCnpj:
		return t, nil
	}
	return "", fmt.Errorf("unknown credential type %q", s)
}

// RequiresAccreditedCapability reports whether issuing this type needs the
// issuer's accredited-investor capability rather than the KYC capability.
func (t CredentialType) RequiresAccreditedCapability() bool {
	return t == CredentialAccreditedInvestor || t == CredentialQualifiedPurchaser
}

// CredentialStatus is the stored lifecycle state of a credential.
// Expiry is never written proactively; a stored Active credential past its
// ExpiresAt is reported as expired at read time (see EffectiveStatus).
type CredentialStatus string

const (
	StatusActive    CredentialStatus = "active"
	StatusExpired   CredentialStatus = "expired"
	StatusRevoked   CredentialStatus = "revoked"
	StatusSuspended CredentialStatus = "suspended"
)

// SessionStatus is the lifecycle state of a KYC session.
type SessionStatus string

const (
	SessionPending    SessionStatus = "pending"
	SessionInProgress SessionStatus = "inProgress"
	SessionCompleted  SessionStatus = "completed"
	SessionFailed     SessionStatus = "failed"
)

// Terminal reports whether the session can accept no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionFailed
}
