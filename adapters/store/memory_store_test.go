package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-markets/credenza/core"
)

func TestChallengeRoundTrip(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()
	now := time.Now()

	challenge := &core.Challenge{
		Wallet:    "wallet-a",
		Nonce:     "prove it",
		IssuedAt:  now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
	require.NoError(t, s.PutChallenge(ctx, challenge, 5*time.Minute))

	got, err := s.GetChallenge(ctx, "wallet-a")
	require.NoError(t, err)
	assert.Equal(t, "prove it", got.Nonce)

	require.NoError(t, s.DeleteChallenge(ctx, "wallet-a"))
	_, err = s.GetChallenge(ctx, "wallet-a")
	assert.ErrorIs(t, err, core.ErrNoChallengeFound)
}

func TestChallengeOverwrite(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()
	now := time.Now()

	first := &core.Challenge{Wallet: "wallet-a", Nonce: "first", IssuedAt: now, ExpiresAt: now.Add(5 * time.Minute)}
	second := &core.Challenge{Wallet: "wallet-a", Nonce: "second", IssuedAt: now, ExpiresAt: now.Add(5 * time.Minute)}
	require.NoError(t, s.PutChallenge(ctx, first, 5*time.Minute))
	require.NoError(t, s.PutChallenge(ctx, second, 5*time.Minute))

	got, err := s.GetChallenge(ctx, "wallet-a")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Nonce)
}

func TestChallengeUnknownWallet(t *testing.T) {
	s := NewMemoryChallengeStore()

	_, err := s.GetChallenge(context.Background(), "wallet-b")
	assert.ErrorIs(t, err, core.ErrNoChallengeFound)
}

func TestExpiredChallengeStillReadableWithinRetention(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()
	now := time.Now()

	// An already-expired challenge is retained so the service can report
	// expiry rather than absence.
	challenge := &core.Challenge{
		Wallet:    "wallet-a",
		Nonce:     "late",
		IssuedAt:  now.Add(-10 * time.Minute),
		ExpiresAt: now.Add(-5 * time.Minute),
	}
	require.NoError(t, s.PutChallenge(ctx, challenge, 5*time.Minute))

	got, err := s.GetChallenge(ctx, "wallet-a")
	require.NoError(t, err)
	assert.True(t, got.Expired(now))
}

func TestSessionRoundTrip(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()
	now := time.Now()

	session := &core.KycSession{
		ID:        "sess-1",
		Wallet:    "wallet-a",
		Type:      core.CredentialKycBasic,
		Status:    core.SessionPending,
		Data:      map[string]string{"fullName": "Maria Silva"},
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	}
	require.NoError(t, s.PutSession(ctx, session))

	got, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, core.SessionPending, got.Status)
	assert.Equal(t, "Maria Silva", got.Data["fullName"])

	require.NoError(t, s.DeleteSession(ctx, "sess-1"))
	_, err = s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestPurgeExpiredRemovesOnlyExpired(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()
	now := time.Now()

	expired := &core.KycSession{ID: "old", Wallet: "a", ExpiresAt: now.Add(-time.Minute)}
	live := &core.KycSession{ID: "new", Wallet: "b", ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, s.PutSession(ctx, expired))
	require.NoError(t, s.PutSession(ctx, live))

	purged, err := s.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = s.GetSession(ctx, "old")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	_, err = s.GetSession(ctx, "new")
	assert.NoError(t, err)
}
