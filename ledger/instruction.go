package ledger

import "errors"

// Signature identifies a committed ledger transaction.
type Signature string

// Write is one full record image to be stored at an address. Records are
// encoded by the codec in this package before they reach the wire.
type Write struct {
	Address Address
	Record  []byte
}

// Instruction is an atomic batch of record writes authorized by a single
// key. The ledger either commits every write or none of them.
type Instruction struct {
	Authority string
	Writes    []Write
}

var (
	// ErrNotFound is returned by FetchAccount when no record exists at the
	// address.
	ErrNotFound = errors.New("ledger: account not found")

	// ErrTransient marks transport failures where the submission is known
	// not to have been applied. Safe to retry once with backoff; every
	// other submission failure must be treated as ambiguous.
	ErrTransient = errors.New("ledger: transient transport failure")

	// ErrRejected is returned when the ledger refuses the instruction.
	ErrRejected = errors.New("ledger: instruction rejected")
)
