package domain

import (
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// AddressLen is the width of an address in bytes.
const AddressLen = 32

// Address names a storage region or a principal.
type Address [AddressLen]byte

var (
	// SentinelAddress marks an empty mailbox slot.
	SentinelAddress = Address{
		0x06, 0xdd, 0xf6, 0xe1, 0xd7, 0x65, 0xa1, 0x93,
		0xd9, 0xcb, 0xe1, 0x46, 0xce, 0xeb, 0x79, 0xac,
		0x1c, 0xb4, 0x85, 0xed, 0x5f, 0x5b, 0x37, 0x91,
		0x3a, 0x8c, 0xf5, 0x85, 0x7e, 0xff, 0x00, 0xa9,
	}

	// SystemProgramID owns unassigned and released regions.
	SystemProgramID = Address{}
)

// AddressFromBytes copies b into an Address. b must be exactly AddressLen bytes.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("address: invalid length %d", len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ParseAddress decodes the base58 text form.
func ParseAddress(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("address: decode %q: %w", s, err)
	}
	return AddressFromBytes(raw)
}

// MustParseAddress is ParseAddress that panics on error. Intended for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromSeed derives a deterministic address from a seed string
// (BLAKE2b-256 of the seed).
func AddressFromSeed(seed string) Address {
	return Address(blake2b.Sum256([]byte(seed)))
}

// NewAddress returns a random address.
func NewAddress() Address {
	var a Address
	if _, err := rand.Read(a[:]); err != nil {
		panic(fmt.Sprintf("address: read random: %v", err))
	}
	return a
}

// String returns the base58 text form.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLen)
	copy(b, a[:])
	return b
}

// IsZero reports whether every byte is zero.
func (a Address) IsZero() bool {
	return a == Address{}
}

// IsSentinel reports whether a is the empty-slot marker.
func (a Address) IsSentinel() bool {
	return a == SentinelAddress
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
