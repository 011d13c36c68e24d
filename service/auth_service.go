package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/internal/metrics"
	"github.com/lumina-markets/credenza/ports"
)

// AuthService handles wallet challenge-response authentication. A challenge
// is single-use and time-boxed: a captured signature is worthless once the
// nonce is consumed or expired, which is what makes replay impossible.
type AuthService struct {
	store       ports.ChallengeStore
	tokenizer   ports.Tokenizer
	adminWallet string

	challengeTTL time.Duration
	tokenTTL     time.Duration

	now func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(store ports.ChallengeStore, tokenizer ports.Tokenizer, adminWallet string) *AuthService {
	return &AuthService{
		store:        store,
		tokenizer:    tokenizer,
		adminWallet:  adminWallet,
		challengeTTL: 5 * time.Minute,
		tokenTTL:     time.Hour,
		now:          time.Now,
	}
}

// RequestChallenge generates a fresh challenge for a wallet, replacing any
// prior unconsumed one. At most one challenge is live per wallet.
func (s *AuthService) RequestChallenge(ctx context.Context, wallet string) (*core.Challenge, error) {
	if _, err := decodeWalletKey(wallet); err != nil {
		return nil, err
	}

	nonceBytes := make([]byte, 32)
	if _, err := rand.Read(nonceBytes); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	now := s.now()
	challenge := &core.Challenge{
		Wallet:    wallet,
		Nonce:     challengePrompt(wallet, hex.EncodeToString(nonceBytes)),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.challengeTTL),
	}

	if err := s.store.PutChallenge(ctx, challenge, s.challengeTTL); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	metrics.AuthChallengesIssued.Inc()
	return challenge, nil
}

// VerifyResponse checks a signed challenge and mints a session token. The
// stored challenge is deleted on success and on expiry, never reusable.
func (s *AuthService) VerifyResponse(ctx context.Context, wallet, nonce, signature string) (string, *core.SessionToken, error) {
	token, session, err := s.verifyResponse(ctx, wallet, nonce, signature)
	if err != nil {
		metrics.AuthVerifications.WithLabelValues("failure").Inc()
		return "", nil, err
	}
	metrics.AuthVerifications.WithLabelValues("success").Inc()
	return token, session, nil
}

func (s *AuthService) verifyResponse(ctx context.Context, wallet, nonce, signature string) (string, *core.SessionToken, error) {
	pubKey, err := decodeWalletKey(wallet)
	if err != nil {
		return "", nil, err
	}

	challenge, err := s.store.GetChallenge(ctx, wallet)
	if err != nil {
		return "", nil, err
	}

	if challenge.Nonce != nonce {
		return "", nil, core.ErrNonceMismatch
	}

	now := s.now()
	if challenge.Expired(now) {
		// Consume it either way so the signature cannot be replayed later
		_ = s.store.DeleteChallenge(ctx, wallet)
		return "", nil, core.ErrChallengeExpired
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return "", nil, core.ErrInvalidSignature
	}
	if !ed25519.Verify(pubKey, []byte(challenge.Nonce), sig) {
		return "", nil, core.ErrInvalidSignature
	}

	if err := s.store.DeleteChallenge(ctx, wallet); err != nil {
		return "", nil, fmt.Errorf("failed to consume challenge: %w", err)
	}

	session := &core.SessionToken{
		ID:        uuid.New().String(),
		Wallet:    wallet,
		IsAdmin:   wallet == s.adminWallet,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL),
	}

	tokenStr, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create session token: %w", err)
	}

	return tokenStr, session, nil
}

// ValidateToken parses a bearer token and rejects expired ones
func (s *AuthService) ValidateToken(token string) (*core.SessionToken, error) {
	session, err := s.tokenizer.TokenToSession(token)
	if err != nil {
		return nil, err
	}

	if s.now().After(session.ExpiresAt) {
		return nil, core.ErrTokenExpired
	}

	return session, nil
}

// challengePrompt wraps the nonce in a human-readable message wallets can
// show before signing.
func challengePrompt(wallet, nonce string) string {
	return fmt.Sprintf("Credenza wants you to prove control of %s\nNonce: %s", wallet, nonce)
}

func decodeWalletKey(wallet string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(wallet)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, core.ErrInvalidWalletKey
	}
	return ed25519.PublicKey(raw), nil
}
