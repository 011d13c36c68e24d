package ledgerstore

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/lumina-markets/credenza/ledger"
	"github.com/lumina-markets/credenza/ports"
)

// MemoryLedger is an in-process implementation of ports.Ledger. It applies
// instructions atomically under one lock, which matches the commit-all-or-
// nothing contract the services rely on. Production deployments swap in a
// client for the real ledger behind the same interface.
type MemoryLedger struct {
	mu       sync.RWMutex
	accounts map[ledger.Address][]byte
	sequence uint64
}

// NewMemoryLedger creates an empty in-process ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		accounts: make(map[ledger.Address][]byte),
	}
}

var _ ports.Ledger = (*MemoryLedger)(nil)

// DeriveAddress delegates to the deterministic derivation function
func (l *MemoryLedger) DeriveAddress(namespace string, seeds ...[]byte) (ledger.Address, uint8, error) {
	return ledger.DeriveAddress(namespace, seeds...)
}

// Submit applies every write in the instruction or none of them
func (l *MemoryLedger) Submit(ctx context.Context, instr ledger.Instruction) (ledger.Signature, error) {
	if instr.Authority == "" {
		return "", fmt.Errorf("%w: instruction has no authority", ledger.ErrRejected)
	}
	if len(instr.Writes) == 0 {
		return "", fmt.Errorf("%w: instruction has no writes", ledger.ErrRejected)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sequence++

	h := sha256.New()
	h.Write([]byte(instr.Authority))
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], l.sequence)
	h.Write(seq[:])

	for _, w := range instr.Writes {
		record := make([]byte, len(w.Record))
		copy(record, w.Record)
		l.accounts[w.Address] = record

		h.Write(w.Address[:])
		h.Write(w.Record)
	}

	return ledger.Signature(base58.Encode(h.Sum(nil))), nil
}

// FetchAccount returns the raw record stored at an address
func (l *MemoryLedger) FetchAccount(ctx context.Context, addr ledger.Address) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	record, exists := l.accounts[addr]
	if !exists {
		return nil, ledger.ErrNotFound
	}

	out := make([]byte, len(record))
	copy(out, record)
	return out, nil
}
