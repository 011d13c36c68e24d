package ledgerstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-markets/credenza/ledger"
)

func testAddress(t *testing.T, seed string) ledger.Address {
	t.Helper()
	addr, _, err := ledger.DeriveAddress(ledger.NamespaceCredential, []byte(seed))
	require.NoError(t, err)
	return addr
}

func TestSubmitAndFetch(t *testing.T) {
	led := NewMemoryLedger()
	ctx := context.Background()
	addr := testAddress(t, "wallet-a")

	sig, err := led.Submit(ctx, ledger.Instruction{
		Authority: "authority",
		Writes:    []ledger.Write{{Address: addr, Record: []byte(`{"v":1}`)}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	record, err := led.FetchAccount(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":1}`), record)
}

func TestSubmitAppliesAllWrites(t *testing.T) {
	led := NewMemoryLedger()
	ctx := context.Background()
	a := testAddress(t, "wallet-a")
	b := testAddress(t, "wallet-b")

	_, err := led.Submit(ctx, ledger.Instruction{
		Authority: "authority",
		Writes: []ledger.Write{
			{Address: a, Record: []byte("one")},
			{Address: b, Record: []byte("two")},
		},
	})
	require.NoError(t, err)

	one, err := led.FetchAccount(ctx, a)
	require.NoError(t, err)
	two, err := led.FetchAccount(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), one)
	assert.Equal(t, []byte("two"), two)
}

func TestSubmitRejectsMalformedInstructions(t *testing.T) {
	led := NewMemoryLedger()
	ctx := context.Background()
	addr := testAddress(t, "wallet-a")

	_, err := led.Submit(ctx, ledger.Instruction{
		Writes: []ledger.Write{{Address: addr, Record: []byte("x")}},
	})
	assert.ErrorIs(t, err, ledger.ErrRejected)

	_, err = led.Submit(ctx, ledger.Instruction{Authority: "authority"})
	assert.ErrorIs(t, err, ledger.ErrRejected)
}

func TestFetchUnknownAddress(t *testing.T) {
	led := NewMemoryLedger()

	_, err := led.FetchAccount(context.Background(), testAddress(t, "nobody"))
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStoredRecordsAreIsolated(t *testing.T) {
	led := NewMemoryLedger()
	ctx := context.Background()
	addr := testAddress(t, "wallet-a")

	record := []byte("original")
	_, err := led.Submit(ctx, ledger.Instruction{
		Authority: "authority",
		Writes:    []ledger.Write{{Address: addr, Record: record}},
	})
	require.NoError(t, err)

	// Mutating the caller's slice must not leak into the ledger
	record[0] = 'X'
	stored, err := led.FetchAccount(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), stored)

	// And mutating a fetched copy must not corrupt the stored record
	stored[0] = 'Y'
	again, err := led.FetchAccount(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestSignaturesAreUnique(t *testing.T) {
	led := NewMemoryLedger()
	ctx := context.Background()
	addr := testAddress(t, "wallet-a")
	instr := ledger.Instruction{
		Authority: "authority",
		Writes:    []ledger.Write{{Address: addr, Record: []byte("same")}},
	}

	first, err := led.Submit(ctx, instr)
	require.NoError(t, err)
	second, err := led.Submit(ctx, instr)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "identical instructions still get distinct signatures")
}
