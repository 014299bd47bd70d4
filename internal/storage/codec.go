package storage

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

// Region record layout (big-endian):
//
//	[length:4][crc32:4][owner:32][balance:8][data...]
//
// length counts everything after itself; the CRC covers owner, balance
// and data. The address is the key and is not repeated in the value.
const (
	recordHeaderLen = 8
	recordFixedLen  = domain.AddressLen + 8
	minRecordLen    = recordHeaderLen + recordFixedLen
)

// keyPrefix namespaces region keys in the KV store.
var keyPrefix = []byte("region/")

func regionKey(addr domain.Address) []byte {
	key := make([]byte, 0, len(keyPrefix)+domain.AddressLen)
	key = append(key, keyPrefix...)
	return append(key, addr[:]...)
}

func addressFromKey(key []byte) (domain.Address, error) {
	if len(key) != len(keyPrefix)+domain.AddressLen {
		return domain.Address{}, fmt.Errorf("%w: key length %d", ErrCorruptedRegion, len(key))
	}
	return domain.AddressFromBytes(key[len(keyPrefix):])
}

// EncodeRegion serializes r without its address.
func EncodeRegion(r *domain.Region) []byte {
	body := make([]byte, recordFixedLen+len(r.Data))
	copy(body, r.Owner[:])
	binary.BigEndian.PutUint64(body[domain.AddressLen:], r.Balance)
	copy(body[recordFixedLen:], r.Data)

	out := make([]byte, recordHeaderLen, recordHeaderLen+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(4+len(body)))
	binary.BigEndian.PutUint32(out[4:8], crc32.ChecksumIEEE(body))
	return append(out, body...)
}

// DecodeRegion parses a record produced by EncodeRegion.
func DecodeRegion(addr domain.Address, raw []byte) (*domain.Region, error) {
	if len(raw) < minRecordLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptedRegion, len(raw))
	}
	length := binary.BigEndian.Uint32(raw[0:4])
	if int(length) != len(raw)-4 {
		return nil, fmt.Errorf("%w: length %d, have %d", ErrCorruptedRegion, length, len(raw)-4)
	}

	wantCRC := binary.BigEndian.Uint32(raw[4:8])
	body := raw[recordHeaderLen:]
	if crc32.ChecksumIEEE(body) != wantCRC {
		return nil, ErrChecksumMismatch
	}

	r := &domain.Region{
		Address: addr,
		Balance: binary.BigEndian.Uint64(body[domain.AddressLen:]),
		Data:    make([]byte, len(body)-recordFixedLen),
	}
	copy(r.Owner[:], body[:domain.AddressLen])
	copy(r.Data, body[recordFixedLen:])
	return r, nil
}
