package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ledgerstore "github.com/lumina-markets/credenza/adapters/ledger"
	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/ledger"
)

// testWallet generates a throwaway ed25519 wallet and its base58 key.
func testWallet(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return base58.Encode(pub), priv
}

// fakeClock makes session and credential timing deterministic.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Unix(1_700_000_000, 0).UTC()}
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// nopEvents swallows lifecycle events.
type nopEvents struct{}

func (nopEvents) PublishCredentialIssued(context.Context, string, string, core.CredentialType, string) error {
	return nil
}

func (nopEvents) PublishCredentialRevoked(context.Context, string, string, string, string) error {
	return nil
}

func (nopEvents) PublishSessionCompleted(context.Context, string, string, core.CredentialType, string) error {
	return nil
}

// recordingLedger counts submissions so tests can assert the ledger was
// never contacted.
type recordingLedger struct {
	*ledgerstore.MemoryLedger
	submits  int
	failNext int // submissions to fail with ErrTransient before succeeding
}

func newRecordingLedger() *recordingLedger {
	return &recordingLedger{MemoryLedger: ledgerstore.NewMemoryLedger()}
}

func (l *recordingLedger) Submit(ctx context.Context, instr ledger.Instruction) (ledger.Signature, error) {
	l.submits++
	if l.failNext > 0 {
		l.failNext--
		return "", ledger.ErrTransient
	}
	return l.MemoryLedger.Submit(ctx, instr)
}

// newAuthority wires a credential service against an in-process ledger with
// an initialized network and one registered issuer.
func newAuthority(t *testing.T, clock *fakeClock, canIssueKyc, canIssueAccredited bool) (*CredentialService, *recordingLedger, string, string) {
	t.Helper()

	led := newRecordingLedger()
	svc := NewCredentialService(led, nopEvents{})
	svc.now = clock.Now
	svc.retryBackoff = time.Millisecond

	admin, _ := testWallet(t)
	issuer, _ := testWallet(t)

	ctx := context.Background()
	_, _, err := svc.InitializeNetwork(ctx, admin, "testnet", decimal.Zero)
	require.NoError(t, err)
	_, _, err = svc.RegisterIssuer(ctx, admin, issuer, "Acme Verifications", canIssueKyc, canIssueAccredited)
	require.NoError(t, err)

	return svc, led, admin, issuer
}
