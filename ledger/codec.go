package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumina-markets/credenza/core"
)

// The ledger stores enum fields as single-key tagged objects, e.g.
// {"active":{}}. This file is the only place that shape is known; core code
// sees core.CredentialStatus and nothing else.

type statusWire map[string]struct{}

func encodeStatus(s core.CredentialStatus) statusWire {
	return statusWire{string(s): {}}
}

func decodeStatus(w statusWire) (core.CredentialStatus, error) {
	if len(w) != 1 {
		return "", fmt.Errorf("status object must have exactly one tag, got %d", len(w))
	}
	for tag := range w {
		switch s := core.CredentialStatus(tag); s {
		case core.StatusActive, core.StatusExpired, core.StatusRevoked, core.StatusSuspended:
			return s, nil
		}
		return "", fmt.Errorf("unknown status tag %q", tag)
	}
	return "", fmt.Errorf("empty status object")
}

type networkWire struct {
	Authority              string `json:"authority"`
	Name                   string `json:"name"`
	IssuanceFee            string `json:"issuanceFee"`
	TotalIssuers           uint64 `json:"totalIssuers"`
	TotalCredentialsIssued uint64 `json:"totalCredentialsIssued"`
	ActiveCredentials      uint64 `json:"activeCredentials"`
	IsActive               bool   `json:"isActive"`
}

type issuerWire struct {
	Authority          string `json:"authority"`
	Network            string `json:"network"`
	Name               string `json:"name"`
	CanIssueKyc        bool   `json:"canIssueKyc"`
	CanIssueAccredited bool   `json:"canIssueAccredited"`
	CredentialsIssued  uint64 `json:"credentialsIssued"`
	ActiveCredentials  uint64 `json:"activeCredentials"`
	RevokedCredentials uint64 `json:"revokedCredentials"`
	IsActive           bool   `json:"isActive"`
}

type credentialWire struct {
	Holder           string     `json:"holder"`
	Issuer           string     `json:"issuer"`
	Type             string     `json:"credentialType"`
	Status           statusWire `json:"status"`
	IssuedAt         int64      `json:"issuedAt"`
	ExpiresAt        int64      `json:"expiresAt"`
	LastVerifiedAt   int64      `json:"lastVerifiedAt"`
	MetadataURI      string     `json:"metadataUri"`
	RevocationReason *string    `json:"revocationReason"`
	Version          int        `json:"version"`
}

// EncodeNetwork serializes a network record for the ledger.
func EncodeNetwork(n *core.Network) ([]byte, error) {
	return json.Marshal(networkWire{
		Authority:              n.Authority,
		Name:                   n.Name,
		IssuanceFee:            n.IssuanceFee.String(),
		TotalIssuers:           n.TotalIssuers,
		TotalCredentialsIssued: n.TotalCredentialsIssued,
		ActiveCredentials:      n.ActiveCredentials,
		IsActive:               n.IsActive,
	})
}

// DecodeNetwork deserializes a network record.
func DecodeNetwork(raw []byte) (*core.Network, error) {
	var w networkWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode network record: %w", err)
	}
	fee, err := decimal.NewFromString(w.IssuanceFee)
	if err != nil {
		return nil, fmt.Errorf("decode network fee: %w", err)
	}
	return &core.Network{
		Authority:              w.Authority,
		Name:                   w.Name,
		IssuanceFee:            fee,
		TotalIssuers:           w.TotalIssuers,
		TotalCredentialsIssued: w.TotalCredentialsIssued,
		ActiveCredentials:      w.ActiveCredentials,
		IsActive:               w.IsActive,
	}, nil
}

// EncodeIssuer serializes an issuer record for the ledger.
func EncodeIssuer(i *core.Issuer) ([]byte, error) {
	return json.Marshal(issuerWire(*i))
}

// DecodeIssuer deserializes an issuer record.
func DecodeIssuer(raw []byte) (*core.Issuer, error) {
	var w issuerWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode issuer record: %w", err)
	}
	i := core.Issuer(w)
	return &i, nil
}

// EncodeCredential serializes a credential record for the ledger.
func EncodeCredential(c *core.Credential) ([]byte, error) {
	w := credentialWire{
		Holder:         c.Holder,
		Issuer:         c.Issuer,
		Type:           string(c.Type),
		Status:         encodeStatus(c.Status),
		IssuedAt:       unixOrZero(c.IssuedAt),
		ExpiresAt:      unixOrZero(c.ExpiresAt),
		LastVerifiedAt: unixOrZero(c.LastVerifiedAt),
		MetadataURI:    c.MetadataURI,
		Version:        c.Version,
	}
	if c.RevocationReason != "" {
		reason := c.RevocationReason
		w.RevocationReason = &reason
	}
	return json.Marshal(w)
}

// DecodeCredential deserializes a credential record.
func DecodeCredential(raw []byte) (*core.Credential, error) {
	var w credentialWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode credential record: %w", err)
	}
	status, err := decodeStatus(w.Status)
	if err != nil {
		return nil, fmt.Errorf("decode credential record: %w", err)
	}
	credType, err := core.ParseCredentialType(w.Type)
	if err != nil {
		return nil, fmt.Errorf("decode credential record: %w", err)
	}
	c := &core.Credential{
		Holder:         w.Holder,
		Issuer:         w.Issuer,
		Type:           credType,
		Status:         status,
		IssuedAt:       unixTime(w.IssuedAt),
		ExpiresAt:      unixTime(w.ExpiresAt),
		LastVerifiedAt: unixTime(w.LastVerifiedAt),
		MetadataURI:    w.MetadataURI,
		Version:        w.Version,
	}
	if w.RevocationReason != nil {
		c.RevocationReason = *w.RevocationReason
	}
	return c, nil
}

// Ledger timestamps are unix seconds; zero means unset.

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func unixTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}
