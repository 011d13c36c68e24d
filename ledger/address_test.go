package ledger

import (
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddressDeterministic(t *testing.T) {
	a1, salt1, err := DeriveAddress(NamespaceCredential, []byte("wallet-a"))
	require.NoError(t, err)
	a2, salt2, err := DeriveAddress(NamespaceCredential, []byte("wallet-a"))
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.Equal(t, salt1, salt2)
}

func TestDeriveAddressDistinctInputs(t *testing.T) {
	byNamespace, _, err := DeriveAddress(NamespaceIssuer, []byte("wallet-a"))
	require.NoError(t, err)
	byCredential, _, err := DeriveAddress(NamespaceCredential, []byte("wallet-a"))
	require.NoError(t, err)
	bySeed, _, err := DeriveAddress(NamespaceCredential, []byte("wallet-b"))
	require.NoError(t, err)

	assert.NotEqual(t, byNamespace, byCredential)
	assert.NotEqual(t, byCredential, bySeed)
}

func TestDeriveAddressNotASigningKey(t *testing.T) {
	wallets := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for _, w := range wallets {
		addr, _, err := DeriveAddress(NamespaceCredential, []byte(w))
		require.NoError(t, err)

		_, err = new(edwards25519.Point).SetBytes(addr[:])
		assert.Error(t, err, "derived address must not decode to a curve point")
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	addr, _, err := DeriveAddress(NamespaceNetwork)
	require.NoError(t, err)

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)
}

func TestParseAddressRejectsBadInput(t *testing.T) {
	_, err := ParseAddress("not-base58-0OIl")
	assert.Error(t, err)

	_, err = ParseAddress("abc")
	assert.Error(t, err)
}
