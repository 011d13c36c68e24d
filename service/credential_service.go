package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/internal/metrics"
	"github.com/lumina-markets/credenza/ledger"
	"github.com/lumina-markets/credenza/ports"
)

// VerifyOutcome is the answer to "may this holder trade right now".
type VerifyOutcome struct {
	IsValid    bool
	Reason     string
	Credential *core.Credential
}

// CredentialService is the authority for the credential lifecycle. Every
// mutation is a single atomic ledger instruction; expiry is derived at read
// time because nothing proactively flips Active records to Expired.
type CredentialService struct {
	ledger ports.Ledger
	events ports.EventPublisher

	submitTimeout time.Duration
	retryBackoff  time.Duration

	now func() time.Time
}

// NewCredentialService creates a new credential authority
func NewCredentialService(ledgerClient ports.Ledger, events ports.EventPublisher) *CredentialService {
	return &CredentialService{
		ledger:        ledgerClient,
		events:        events,
		submitTimeout: 5 * time.Second,
		retryBackoff:  200 * time.Millisecond,
		now:           time.Now,
	}
}

// InitializeNetwork creates the singleton network record
func (s *CredentialService) InitializeNetwork(ctx context.Context, admin, name string, fee decimal.Decimal) (*core.Network, ledger.Signature, error) {
	addr, _, err := s.ledger.DeriveAddress(ledger.NamespaceNetwork)
	if err != nil {
		return nil, "", fmt.Errorf("derive network address: %w", err)
	}

	if _, err := s.ledger.FetchAccount(ctx, addr); err == nil {
		return nil, "", core.ErrNetworkExists
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return nil, "", fmt.Errorf("fetch network: %w", err)
	}

	network := &core.Network{
		Authority:   admin,
		Name:        name,
		IssuanceFee: fee,
		IsActive:    true,
	}

	sig, err := s.submitRecords(ctx, admin, recordWrite{addr, network})
	if err != nil {
		return nil, "", err
	}
	return network, sig, nil
}

// SetNetworkActive pauses or resumes issuance network-wide
func (s *CredentialService) SetNetworkActive(ctx context.Context, caller string, active bool) (ledger.Signature, error) {
	network, addr, err := s.fetchNetwork(ctx)
	if err != nil {
		return "", err
	}
	if caller != network.Authority {
		return "", core.ErrNotAdmin
	}

	network.IsActive = active
	return s.submitRecords(ctx, caller, recordWrite{addr, network})
}

// RegisterIssuer grants an authority key the right to issue credentials
func (s *CredentialService) RegisterIssuer(ctx context.Context, caller, authority, name string, canIssueKyc, canIssueAccredited bool) (*core.Issuer, ledger.Signature, error) {
	network, networkAddr, err := s.fetchNetwork(ctx)
	if err != nil {
		return nil, "", err
	}
	if caller != network.Authority {
		return nil, "", core.ErrNotAdmin
	}
	if !network.IsActive {
		return nil, "", core.ErrNetworkInactive
	}

	issuerAddr, _, err := s.ledger.DeriveAddress(ledger.NamespaceIssuer, []byte(authority))
	if err != nil {
		return nil, "", fmt.Errorf("derive issuer address: %w", err)
	}
	if _, err := s.ledger.FetchAccount(ctx, issuerAddr); err == nil {
		return nil, "", core.ErrIssuerExists
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return nil, "", fmt.Errorf("fetch issuer: %w", err)
	}

	issuer := &core.Issuer{
		Authority:          authority,
		Network:            networkAddr.String(),
		Name:               name,
		CanIssueKyc:        canIssueKyc,
		CanIssueAccredited: canIssueAccredited,
		IsActive:           true,
	}
	network.TotalIssuers++

	sig, err := s.submitRecords(ctx, caller, recordWrite{issuerAddr, issuer}, recordWrite{networkAddr, network})
	if err != nil {
		return nil, "", err
	}
	return issuer, sig, nil
}

// SetIssuerActive enables or disables an issuer
func (s *CredentialService) SetIssuerActive(ctx context.Context, caller, authority string, active bool) (ledger.Signature, error) {
	network, _, err := s.fetchNetwork(ctx)
	if err != nil {
		return "", err
	}
	if caller != network.Authority {
		return "", core.ErrNotAdmin
	}

	issuer, issuerAddr, err := s.fetchIssuer(ctx, authority)
	if err != nil {
		return "", err
	}

	issuer.IsActive = active
	return s.submitRecords(ctx, caller, recordWrite{issuerAddr, issuer})
}

// GetNetwork reads the network record
func (s *CredentialService) GetNetwork(ctx context.Context) (*core.Network, error) {
	network, _, err := s.fetchNetwork(ctx)
	return network, err
}

// GetIssuer reads an issuer record
func (s *CredentialService) GetIssuer(ctx context.Context, authority string) (*core.Issuer, error) {
	issuer, _, err := s.fetchIssuer(ctx, authority)
	return issuer, err
}

// GetCredential reads a holder's credential record
func (s *CredentialService) GetCredential(ctx context.Context, holder string) (*core.Credential, error) {
	credential, _, err := s.fetchCredential(ctx, holder)
	return credential, err
}

// Issue creates or overwrites the holder's single credential record. The
// caller must own an active issuer record carrying the capability for the
// requested type, and the network must not be paused.
func (s *CredentialService) Issue(ctx context.Context, issuerAuthority, holder string, credType core.CredentialType, expiresInDays int, metadataURI string) (*core.Credential, ledger.Signature, error) {
	if _, err := decodeWalletKey(holder); err != nil {
		return nil, "", err
	}
	if expiresInDays <= 0 {
		return nil, "", fmt.Errorf("expiresInDays must be positive, got %d", expiresInDays)
	}

	network, networkAddr, err := s.fetchNetwork(ctx)
	if err != nil {
		return nil, "", err
	}
	if !network.IsActive {
		return nil, "", core.ErrNetworkInactive
	}

	issuer, issuerAddr, err := s.fetchIssuer(ctx, issuerAuthority)
	if errors.Is(err, core.ErrIssuerNotFound) {
		return nil, "", core.ErrIssuerNotAuthorized
	}
	if err != nil {
		return nil, "", err
	}
	if !issuer.IsActive || !issuer.CanIssue(credType) {
		return nil, "", core.ErrIssuerNotAuthorized
	}

	credAddr, _, err := s.ledger.DeriveAddress(ledger.NamespaceCredential, []byte(holder))
	if err != nil {
		return nil, "", fmt.Errorf("derive credential address: %w", err)
	}

	existing, _, err := s.fetchCredential(ctx, holder)
	if err != nil && !errors.Is(err, core.ErrCredentialNotFound) {
		return nil, "", err
	}

	now := s.now()
	credential := &core.Credential{
		Holder:      holder,
		Issuer:      issuerAuthority,
		Type:        credType,
		Status:      core.StatusActive,
		IssuedAt:    now,
		ExpiresAt:   now.Add(time.Duration(expiresInDays) * 24 * time.Hour),
		MetadataURI: metadataURI,
		Version:     core.CredentialFormatVersion,
	}

	network.TotalCredentialsIssued++
	issuer.CredentialsIssued++
	// Overwriting a stored-Active credential must not double-count it
	if existing == nil || existing.Status != core.StatusActive {
		network.ActiveCredentials++
		issuer.ActiveCredentials++
	}

	sig, err := s.submitRecords(ctx, issuerAuthority,
		recordWrite{credAddr, credential},
		recordWrite{issuerAddr, issuer},
		recordWrite{networkAddr, network},
	)
	if err != nil {
		return nil, "", err
	}

	metrics.CredentialsIssued.WithLabelValues(string(credType)).Inc()
	if err := s.events.PublishCredentialIssued(ctx, holder, issuerAuthority, credType, string(sig)); err != nil {
		log.Printf("warning: failed to publish credential issued event: %v", err)
	}

	return credential, sig, nil
}

// Verify answers whether the holder's credential is valid right now. Expiry
// is always re-checked against the wall clock regardless of the stored
// status field, and revocation outranks expiry in the reported reason. A
// passing check stamps LastVerifiedAt; status is never touched here.
func (s *CredentialService) Verify(ctx context.Context, holder string, requiredType *core.CredentialType) (*VerifyOutcome, error) {
	outcome, err := s.verify(ctx, holder, requiredType)
	if err != nil {
		return nil, err
	}
	if outcome.IsValid {
		metrics.CredentialVerifications.WithLabelValues("valid").Inc()
	} else {
		metrics.CredentialVerifications.WithLabelValues("invalid").Inc()
	}
	return outcome, nil
}

func (s *CredentialService) verify(ctx context.Context, holder string, requiredType *core.CredentialType) (*VerifyOutcome, error) {
	credential, credAddr, err := s.fetchCredential(ctx, holder)
	if errors.Is(err, core.ErrCredentialNotFound) {
		return &VerifyOutcome{Reason: "no credential found for holder"}, nil
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch credential.EffectiveStatus(now) {
	case core.StatusRevoked:
		return &VerifyOutcome{
			Reason:     fmt.Sprintf("credential revoked: %s", credential.RevocationReason),
			Credential: credential,
		}, nil
	case core.StatusSuspended:
		return &VerifyOutcome{Reason: "credential suspended", Credential: credential}, nil
	case core.StatusExpired:
		return &VerifyOutcome{Reason: "credential expired", Credential: credential}, nil
	}

	if requiredType != nil && credential.Type != *requiredType {
		return &VerifyOutcome{
			Reason:     fmt.Sprintf("credential type mismatch: have %s, need %s", credential.Type, *requiredType),
			Credential: credential,
		}, nil
	}

	credential.LastVerifiedAt = now
	if _, err := s.submitRecords(ctx, credential.Issuer, recordWrite{credAddr, credential}); err != nil {
		return nil, fmt.Errorf("record verification: %w", err)
	}

	return &VerifyOutcome{IsValid: true, Credential: credential}, nil
}

// Refresh extends a credential's expiry without touching its status. Only
// the original issuing authority may refresh, and never after revocation.
func (s *CredentialService) Refresh(ctx context.Context, issuerAuthority, holder string, newExpiresInDays int) (*core.Credential, ledger.Signature, error) {
	if newExpiresInDays <= 0 {
		return nil, "", fmt.Errorf("newExpiresInDays must be positive, got %d", newExpiresInDays)
	}

	credential, credAddr, err := s.fetchCredential(ctx, holder)
	if err != nil {
		return nil, "", err
	}
	if credential.Issuer != issuerAuthority {
		return nil, "", core.ErrNotIssuer
	}
	if credential.Status == core.StatusRevoked {
		return nil, "", core.ErrCredentialRevoked
	}

	credential.ExpiresAt = s.now().Add(time.Duration(newExpiresInDays) * 24 * time.Hour)

	sig, err := s.submitRecords(ctx, issuerAuthority, recordWrite{credAddr, credential})
	if err != nil {
		return nil, "", err
	}
	return credential, sig, nil
}

// Revoke terminally disables a credential. Allowed for the network admin or
// the issuing authority. Revocation is a status change, never a deletion.
func (s *CredentialService) Revoke(ctx context.Context, caller, holder, reason string) (*core.Credential, ledger.Signature, error) {
	network, networkAddr, err := s.fetchNetwork(ctx)
	if err != nil {
		return nil, "", err
	}

	credential, credAddr, err := s.fetchCredential(ctx, holder)
	if err != nil {
		return nil, "", err
	}
	if caller != network.Authority && caller != credential.Issuer {
		return nil, "", core.ErrNotIssuer
	}
	if credential.Status == core.StatusRevoked {
		return nil, "", core.ErrCredentialRevoked
	}

	issuer, issuerAddr, err := s.fetchIssuer(ctx, credential.Issuer)
	if err != nil {
		return nil, "", err
	}

	wasActive := credential.Status == core.StatusActive
	credential.Status = core.StatusRevoked
	credential.RevocationReason = reason

	issuer.RevokedCredentials++
	if wasActive {
		if issuer.ActiveCredentials > 0 {
			issuer.ActiveCredentials--
		}
		if network.ActiveCredentials > 0 {
			network.ActiveCredentials--
		}
	}

	sig, err := s.submitRecords(ctx, caller,
		recordWrite{credAddr, credential},
		recordWrite{issuerAddr, issuer},
		recordWrite{networkAddr, network},
	)
	if err != nil {
		return nil, "", err
	}

	metrics.CredentialsRevoked.Inc()
	if err := s.events.PublishCredentialRevoked(ctx, holder, caller, reason, string(sig)); err != nil {
		log.Printf("warning: failed to publish credential revoked event: %v", err)
	}

	return credential, sig, nil
}

type recordWrite struct {
	addr   ledger.Address
	record any
}

// submitRecords encodes the records, bounds the submission with a timeout,
// and retries once on a transient transport failure. Ambiguous failures are
// never retried here; callers re-verify before trying again.
func (s *CredentialService) submitRecords(ctx context.Context, authority string, writes ...recordWrite) (ledger.Signature, error) {
	instr := ledger.Instruction{Authority: authority}
	for _, w := range writes {
		raw, err := encodeRecord(w.record)
		if err != nil {
			return "", err
		}
		instr.Writes = append(instr.Writes, ledger.Write{Address: w.addr, Record: raw})
	}

	ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	sig, err := s.ledger.Submit(ctx, instr)
	if errors.Is(err, ledger.ErrTransient) {
		time.Sleep(s.retryBackoff)
		sig, err = s.ledger.Submit(ctx, instr)
	}
	if err != nil {
		return "", fmt.Errorf("submit instruction: %w", err)
	}
	return sig, nil
}

func encodeRecord(record any) ([]byte, error) {
	switch r := record.(type) {
	case *core.Network:
		return ledger.EncodeNetwork(r)
	case *core.Issuer:
		return ledger.EncodeIssuer(r)
	case *core.Credential:
		return ledger.EncodeCredential(r)
	}
	return nil, fmt.Errorf("unsupported record type %T", record)
}

func (s *CredentialService) fetchNetwork(ctx context.Context) (*core.Network, ledger.Address, error) {
	addr, _, err := s.ledger.DeriveAddress(ledger.NamespaceNetwork)
	if err != nil {
		return nil, ledger.Address{}, fmt.Errorf("derive network address: %w", err)
	}
	raw, err := s.ledger.FetchAccount(ctx, addr)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ledger.Address{}, core.ErrNetworkNotFound
	}
	if err != nil {
		return nil, ledger.Address{}, fmt.Errorf("fetch network: %w", err)
	}
	network, err := ledger.DecodeNetwork(raw)
	if err != nil {
		return nil, ledger.Address{}, err
	}
	return network, addr, nil
}

func (s *CredentialService) fetchIssuer(ctx context.Context, authority string) (*core.Issuer, ledger.Address, error) {
	addr, _, err := s.ledger.DeriveAddress(ledger.NamespaceIssuer, []byte(authority))
	if err != nil {
		return nil, ledger.Address{}, fmt.Errorf("derive issuer address: %w", err)
	}
	raw, err := s.ledger.FetchAccount(ctx, addr)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ledger.Address{}, core.ErrIssuerNotFound
	}
	if err != nil {
		return nil, ledger.Address{}, fmt.Errorf("fetch issuer: %w", err)
	}
	issuer, err := ledger.DecodeIssuer(raw)
	if err != nil {
		return nil, ledger.Address{}, err
	}
	return issuer, addr, nil
}

func (s *CredentialService) fetchCredential(ctx context.Context, holder string) (*core.Credential, ledger.Address, error) {
	addr, _, err := s.ledger.DeriveAddress(ledger.NamespaceCredential, []byte(holder))
	if err != nil {
		return nil, ledger.Address{}, fmt.Errorf("derive credential address: %w", err)
	}
	raw, err := s.ledger.FetchAccount(ctx, addr)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ledger.Address{}, core.ErrCredentialNotFound
	}
	if err != nil {
		return nil, ledger.Address{}, fmt.Errorf("fetch credential: %w", err)
	}
	credential, err := ledger.DecodeCredential(raw)
	if err != nil {
		return nil, ledger.Address{}, err
	}
	return credential, addr, nil
}
