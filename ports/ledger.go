package ports

import (
	"context"

	"github.com/lumina-markets/credenza/ledger"
)

// Ledger is the narrow client for the external account-addressable store.
// Submissions are atomic: either every write in the instruction commits or
// none do. FetchAccount returns ledger.ErrNotFound for absent records.
type Ledger interface {
	DeriveAddress(namespace string, seeds ...[]byte) (ledger.Address, uint8, error)
	Submit(ctx context.Context, instr ledger.Instruction) (ledger.Signature, error)
	FetchAccount(ctx context.Context, addr ledger.Address) ([]byte, error)
}
