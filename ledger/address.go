package ledger

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Record namespaces. Each namespace plus its owner keys derives exactly one
// address, so records can be located without a lookup table.
const (
	NamespaceNetwork    = "network"
	NamespaceIssuer     = "issuer"
	NamespaceCredential = "credential"
)

// addressMarker domain-separates record addresses from every other sha256 use.
const addressMarker = "credenza:record:v1"

// ErrNoValidSalt means the whole salt space produced only curve points.
// The search space makes this astronomically unlikely; treat it as a fatal
// configuration error, not a retryable one.
var ErrNoValidSalt = errors.New("no valid derivation salt for address")

// Address is a 32-byte program-owned record address, rendered as base58.
type Address [32]byte

func (a Address) String() string {
	return base58.Encode(a[:])
}

// ParseAddress decodes a base58 address string.
func ParseAddress(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != len(Address{}) {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", len(Address{}), len(raw))
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// DeriveAddress computes the deterministic address for a record. The salt
// search walks down from 255 until the digest is not a valid ed25519 point,
// guaranteeing no private key can ever exist for the address. The same
// inputs always resolve to the same (address, salt) pair.
func DeriveAddress(namespace string, seeds ...[]byte) (Address, uint8, error) {
	for salt := 255; salt >= 0; salt-- {
		h := sha256.New()
		h.Write([]byte(namespace))
		for _, seed := range seeds {
			h.Write(seed)
		}
		h.Write([]byte{byte(salt)})
		h.Write([]byte(addressMarker))

		var a Address
		copy(a[:], h.Sum(nil))
		if offCurve(a) {
			return a, uint8(salt), nil
		}
	}
	return Address{}, 0, fmt.Errorf("%w: namespace %q", ErrNoValidSalt, namespace)
}

// offCurve reports whether the bytes cannot decode to an ed25519 point.
func offCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err != nil
}
