package core

import "time"

// VerificationResult records the outcome of a session submission.
type VerificationResult struct {
	Passed          bool   `json:"passed"`
	Reason          string `json:"reason,omitempty"`
	LedgerSignature string `json:"ledgerSignature,omitempty"`
}

// KycSession is one identity-verification attempt by a wallet.
type KycSession struct {
	ID        string
	Wallet    string
	Type      CredentialType
	Status    SessionStatus
	Data      map[string]string // collected identity fields, merged per update
	CreatedAt time.Time
	ExpiresAt time.Time
	Result    *VerificationResult
}

// Expired reports whether the session is past its TTL. Expired sessions are
// treated as deleted: any access answers SessionNotFound, not a distinct
// expired error, so probing cannot reveal that a session ever existed.
func (s *KycSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Merge copies the supplied fields over the session's collected data.
func (s *KycSession) Merge(fields map[string]string) {
	if s.Data == nil {
		s.Data = make(map[string]string, len(fields))
	}
	for k, v := range fields {
		s.Data[k] = v
	}
}
