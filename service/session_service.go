package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/internal/metrics"
	"github.com/lumina-markets/credenza/ports"
	"github.com/lumina-markets/credenza/validation"
)

// SessionService drives the KYC session state machine:
// Pending -> InProgress -> Completed | Failed. Expired and terminal sessions
// answer ErrSessionNotFound on mutation so a closed session can never be
// resubmitted, and probing cannot reveal whether one existed.
type SessionService struct {
	store     ports.SessionStore
	authority *CredentialService
	events    ports.EventPublisher

	issuerWallet  string // platform issuer used for KYC-driven issuance
	metadataURI   string
	sessionTTL    time.Duration
	validityDays  int
	sweepInterval time.Duration

	now func() time.Time
}

// NewSessionService creates a new session orchestrator issuing through the
// given platform issuer authority.
func NewSessionService(store ports.SessionStore, authority *CredentialService, events ports.EventPublisher, issuerWallet string) *SessionService {
	return &SessionService{
		store:         store,
		authority:     authority,
		events:        events,
		issuerWallet:  issuerWallet,
		sessionTTL:    30 * time.Minute,
		validityDays:  365,
		sweepInterval: time.Minute,
		now:           time.Now,
	}
}

// CreateSession opens a Pending session for a wallet and credential type
func (s *SessionService) CreateSession(ctx context.Context, wallet string, credType core.CredentialType) (*core.KycSession, error) {
	if _, err := decodeWalletKey(wallet); err != nil {
		return nil, err
	}

	now := s.now()
	session := &core.KycSession{
		ID:        uuid.New().String(),
		Wallet:    wallet,
		Type:      credType,
		Status:    core.SessionPending,
		Data:      make(map[string]string),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.store.PutSession(ctx, session); err != nil {
		return nil, err
	}

	metrics.SessionsCreated.Inc()
	return session, nil
}

// UpdateSessionData merges fields into an open session and moves it to
// InProgress
func (s *SessionService) UpdateSessionData(ctx context.Context, id string, fields map[string]string) (*core.KycSession, error) {
	session, err := s.loadOpen(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Merge(fields)
	session.Status = core.SessionInProgress

	if err := s.store.PutSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit validates the collected data and, on a pass, asks the credential
// authority to issue. Validation failures close the session without any
// ledger contact; issuance failures close it with the issuance reason.
func (s *SessionService) Submit(ctx context.Context, id string) (*core.KycSession, error) {
	session, err := s.loadOpen(ctx, id)
	if err != nil {
		return nil, err
	}

	result := validation.Validate(session.Type, session.Data)
	if !result.Passed {
		session.Status = core.SessionFailed
		session.Result = &core.VerificationResult{Reason: result.Reason}
		if err := s.store.PutSession(ctx, session); err != nil {
			return nil, err
		}
		metrics.SessionSubmissions.WithLabelValues("validation_failed").Inc()
		return session, nil
	}

	credential, sig, err := s.authority.Issue(ctx, s.issuerWallet, session.Wallet, session.Type, s.validityDays, s.metadataURI)
	if err != nil {
		session.Status = core.SessionFailed
		session.Result = &core.VerificationResult{Reason: err.Error()}
		if putErr := s.store.PutSession(ctx, session); putErr != nil {
			return nil, putErr
		}
		metrics.SessionSubmissions.WithLabelValues("issuance_failed").Inc()
		return session, nil
	}

	session.Status = core.SessionCompleted
	session.Result = &core.VerificationResult{
		Passed:          true,
		LedgerSignature: string(sig),
	}
	if err := s.store.PutSession(ctx, session); err != nil {
		return nil, err
	}

	metrics.SessionSubmissions.WithLabelValues("completed").Inc()
	if err := s.events.PublishSessionCompleted(ctx, session.ID, session.Wallet, credential.Type, string(sig)); err != nil {
		log.Printf("warning: failed to publish session completed event: %v", err)
	}

	return session, nil
}

// GetSession returns a session in any state, treating expired as absent
func (s *SessionService) GetSession(ctx context.Context, id string) (*core.KycSession, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		_ = s.store.DeleteSession(ctx, id)
		return nil, core.ErrSessionNotFound
	}
	return session, nil
}

// DeleteSession removes a session explicitly
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.store.DeleteSession(ctx, id)
}

// Sweep purges every session past its expiry, regardless of state
func (s *SessionService) Sweep(ctx context.Context) (int, error) {
	purged, err := s.store.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.SessionsPurged.Add(float64(purged))
	return purged, nil
}

// RunSweeper sweeps periodically until the context is cancelled
func (s *SessionService) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				log.Printf("warning: session sweep failed: %v", err)
			}
		}
	}
}

// loadOpen returns a session that can still accept transitions. Expired and
// terminal sessions are logically closed and answer ErrSessionNotFound.
func (s *SessionService) loadOpen(ctx context.Context, id string) (*core.KycSession, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		_ = s.store.DeleteSession(ctx, id)
		return nil, core.ErrSessionNotFound
	}
	if session.Status.Terminal() {
		return nil, core.ErrSessionNotFound
	}
	return session, nil
}
