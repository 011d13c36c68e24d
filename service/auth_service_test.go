package service

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-markets/credenza/adapters/store"
	"github.com/lumina-markets/credenza/adapters/tokenizer"
	"github.com/lumina-markets/credenza/core"
)

func newAuthService(t *testing.T, clock *fakeClock, adminWallet string) *AuthService {
	t.Helper()

	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	svc := NewAuthService(store.NewMemoryChallengeStore(), tokenizer.NewJWTTokenizer(signKey), adminWallet)
	svc.now = clock.Now
	return svc
}

func signNonce(priv ed25519.PrivateKey, nonce string) string {
	return base58.Encode(ed25519.Sign(priv, []byte(nonce)))
}

func TestChallengeRoundTrip(t *testing.T) {
	clock := newFakeClock()
	wallet, priv := testWallet(t)
	svc := newAuthService(t, clock, wallet)
	ctx := context.Background()

	challenge, err := svc.RequestChallenge(ctx, wallet)
	require.NoError(t, err)
	assert.Contains(t, challenge.Nonce, wallet)
	assert.Equal(t, clock.Now().Add(5*time.Minute), challenge.ExpiresAt)

	token, session, err := svc.VerifyResponse(ctx, wallet, challenge.Nonce, signNonce(priv, challenge.Nonce))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, wallet, session.Wallet)
	assert.True(t, session.IsAdmin, "admin wallet must receive an admin token")

	// The challenge is single-use: replaying the same signature must fail
	_, _, err = svc.VerifyResponse(ctx, wallet, challenge.Nonce, signNonce(priv, challenge.Nonce))
	assert.ErrorIs(t, err, core.ErrNoChallengeFound)
}

func TestNonAdminToken(t *testing.T) {
	clock := newFakeClock()
	admin, _ := testWallet(t)
	wallet, priv := testWallet(t)
	svc := newAuthService(t, clock, admin)
	ctx := context.Background()

	challenge, err := svc.RequestChallenge(ctx, wallet)
	require.NoError(t, err)

	_, session, err := svc.VerifyResponse(ctx, wallet, challenge.Nonce, signNonce(priv, challenge.Nonce))
	require.NoError(t, err)
	assert.False(t, session.IsAdmin)
}

func TestSecondChallengeInvalidatesFirst(t *testing.T) {
	clock := newFakeClock()
	wallet, priv := testWallet(t)
	svc := newAuthService(t, clock, wallet)
	ctx := context.Background()

	first, err := svc.RequestChallenge(ctx, wallet)
	require.NoError(t, err)
	_, err = svc.RequestChallenge(ctx, wallet)
	require.NoError(t, err)

	_, _, err = svc.VerifyResponse(ctx, wallet, first.Nonce, signNonce(priv, first.Nonce))
	assert.ErrorIs(t, err, core.ErrNonceMismatch)
}

func TestExpiredChallengeConsumed(t *testing.T) {
	clock := newFakeClock()
	wallet, priv := testWallet(t)
	svc := newAuthService(t, clock, wallet)
	ctx := context.Background()

	challenge, err := svc.RequestChallenge(ctx, wallet)
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)

	_, _, err = svc.VerifyResponse(ctx, wallet, challenge.Nonce, signNonce(priv, challenge.Nonce))
	assert.ErrorIs(t, err, core.ErrChallengeExpired)

	// Expiry consumes the challenge; a retry finds nothing
	_, _, err = svc.VerifyResponse(ctx, wallet, challenge.Nonce, signNonce(priv, challenge.Nonce))
	assert.ErrorIs(t, err, core.ErrNoChallengeFound)
}

func TestInvalidSignatureRejected(t *testing.T) {
	clock := newFakeClock()
	wallet, _ := testWallet(t)
	_, wrongPriv := testWallet(t)
	svc := newAuthService(t, clock, wallet)
	ctx := context.Background()

	challenge, err := svc.RequestChallenge(ctx, wallet)
	require.NoError(t, err)

	_, _, err = svc.VerifyResponse(ctx, wallet, challenge.Nonce, signNonce(wrongPriv, challenge.Nonce))
	assert.ErrorIs(t, err, core.ErrInvalidSignature)

	_, _, err = svc.VerifyResponse(ctx, wallet, challenge.Nonce, "not-a-signature")
	assert.ErrorIs(t, err, core.ErrInvalidSignature)
}

func TestVerifyWithoutChallenge(t *testing.T) {
	clock := newFakeClock()
	wallet, priv := testWallet(t)
	svc := newAuthService(t, clock, wallet)

	_, _, err := svc.VerifyResponse(context.Background(), wallet, "nonce", signNonce(priv, "nonce"))
	assert.ErrorIs(t, err, core.ErrNoChallengeFound)
}

func TestRequestChallengeRejectsBadWallet(t *testing.T) {
	clock := newFakeClock()
	svc := newAuthService(t, clock, "admin")

	_, err := svc.RequestChallenge(context.Background(), "definitely-not-base58-0OIl")
	assert.ErrorIs(t, err, core.ErrInvalidWalletKey)
}

func TestValidateTokenExpiry(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	wallet, priv := testWallet(t)
	svc := newAuthService(t, clock, wallet)
	ctx := context.Background()

	challenge, err := svc.RequestChallenge(ctx, wallet)
	require.NoError(t, err)
	token, _, err := svc.VerifyResponse(ctx, wallet, challenge.Nonce, signNonce(priv, challenge.Nonce))
	require.NoError(t, err)

	session, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, wallet, session.Wallet)

	clock.Advance(2 * time.Hour)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}
